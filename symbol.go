package rdexpr

import "strconv"

// Symbol identifies a terminal or nonterminal of the expression grammar. The
// tokenizer tags tokens with terminals, and the parser tags tree nodes with
// the production that created them.
type Symbol int8

// Terminals.
const (
	symNone Symbol = iota

	// SymFunction is a function name: sin, cos, tan, exp, or sqrt.
	SymFunction
	SymOpenParen
	SymCloseParen
	// SymPlusMinus is + or -, binary or unary depending on position.
	SymPlusMinus
	// SymMultDiv is * or /.
	SymMultDiv
	// SymRaised is ^.
	SymRaised
	SymNumber

	symLastTerminal
)

// Nonterminals.
const (
	SymRoot Symbol = iota + 100
	// SymEpsilon marks the end of input. It is the symbol of the sentinel
	// lookahead token once the parser has consumed every token.
	SymEpsilon
	SymExpression
	SymSumOp
	SymSignedTerm
	SymTerm
	SymTermOp
	SymSignedFactor
	SymFactor
	SymFactorOp
	SymArgument
	SymValue

	symLastNonterminal
)

var symnames = map[Symbol]string{
	SymFunction:     "FUNCTION",
	SymOpenParen:    "OPEN_PAREN",
	SymCloseParen:   "CLOSE_PAREN",
	SymPlusMinus:    "PLUSMINUS",
	SymMultDiv:      "MULTDIV",
	SymRaised:       "RAISED",
	SymNumber:       "NUMBER",
	SymRoot:         "ROOT",
	SymEpsilon:      "EPSILON",
	SymExpression:   "EXPRESSION",
	SymSumOp:        "SUM_OP",
	SymSignedTerm:   "SIGNED_TERM",
	SymTerm:         "TERM",
	SymTermOp:       "TERM_OP",
	SymSignedFactor: "SIGNED_FACTOR",
	SymFactor:       "FACTOR",
	SymFactorOp:     "FACTOR_OP",
	SymArgument:     "ARGUMENT",
	SymValue:        "VALUE",
}

func (s Symbol) String() string {
	if n, ok := symnames[s]; ok {
		return n
	}
	return "Symbol(" + strconv.Itoa(int(s)) + ")"
}

// Terminal returns whether s is a token-level symbol.
func (s Symbol) Terminal() bool {
	return symNone < s && s < symLastTerminal
}

// Valid returns whether s is any grammar symbol.
func (s Symbol) Valid() bool {
	return s.Terminal() || (SymRoot <= s && s < symLastNonterminal)
}
