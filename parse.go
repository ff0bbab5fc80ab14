package rdexpr

import (
	"context"
	"log/slog"
)

// root          -> expression root | ε
// expression    -> signed_term sum_op
// sum_op        -> PLUSMINUS term sum_op | ε
// signed_term   -> PLUSMINUS term | term
// term          -> factor term_op
// term_op       -> MULTDIV signed_factor term_op | ε
// signed_factor -> PLUSMINUS factor | factor
// factor        -> argument factor_op
// factor_op     -> RAISED signed_factor | ε
// argument      -> FUNCTION argument | OPEN_PAREN expression CLOSE_PAREN | value
// value         -> NUMBER

// Parser is an LL(1) recursive-descent parser over a token sequence. A Parser
// is not safe for concurrent use.
type Parser struct {
	toks []Token
	// cur is the index of the lookahead token in toks.
	cur int
	// look is toks[cur], or the end-of-input sentinel.
	look Token
	p    parsectx
}

// NewParser creates a parser over toks. The parser does not modify toks, but
// the caller must not modify it while the parser is in use.
func NewParser(toks []Token, opts ...ParseOption) *Parser {
	return &Parser{toks: toks, p: newparsectx(opts)}
}

// Parse parses the entire token sequence. If the sequence is empty, the
// result is nil with no error. Otherwise, the result is a tree rooted at a
// SymRoot node, or a *SyntaxError and no tree. Each call parses from the
// start of the sequence.
func (ps *Parser) Parse() (*Node, error) {
	if len(ps.toks) == 0 {
		return nil, nil
	}
	ps.cur = 0
	ps.look = ps.toks[0]
	return ps.root()
}

// Parse tokenizes src and parses the result. A *LexError from the tokenizer
// prevents parsing. If src contains only whitespace, the result is nil with no
// error.
func Parse(src string, opts ...ParseOption) (*Node, error) {
	p := newparsectx(opts)
	toks, err := p.tk.Tokenize(src)
	if err != nil {
		return nil, err
	}
	ps := Parser{toks: toks, p: p}
	return ps.Parse()
}

// next attaches the lookahead token to n and advances to the following
// token.
func (ps *Parser) next(n *Node) {
	tok := ps.look
	n.Tok = &tok
	ps.cur++
	if ps.cur < len(ps.toks) {
		ps.look = ps.toks[ps.cur]
		return
	}
	ps.look = Token{Sym: SymEpsilon, Pos: tok.Pos + len(tok.Text)}
}

// trace logs a production if tracing is enabled.
func (ps *Parser) trace(rule string) {
	if ps.p.trace == nil {
		return
	}
	ps.p.trace.LogAttrs(context.Background(), slog.LevelDebug, "production",
		slog.String("rule", rule),
		slog.String("lookahead", ps.look.String()),
	)
}

func (ps *Parser) root() (*Node, error) {
	n := &Node{Sym: SymRoot}
	for !ps.look.eof() {
		ps.trace("root -> expression root")
		e, err := ps.expression()
		if err != nil {
			return nil, err
		}
		n.add(e)
	}
	ps.trace("root -> ε")
	return n, nil
}

func (ps *Parser) expression() (*Node, error) {
	ps.trace("expression -> signed_term sum_op")
	n := &Node{Sym: SymExpression}
	t, err := ps.signedTerm()
	if err != nil {
		return nil, err
	}
	n.add(t)
	s, err := ps.sumOp()
	if err != nil {
		return nil, err
	}
	n.add(s)
	return n, nil
}

func (ps *Parser) sumOp() (*Node, error) {
	if ps.look.Sym != SymPlusMinus {
		return nil, nil
	}
	ps.trace("sum_op -> PLUSMINUS term sum_op")
	n := &Node{Sym: SymSumOp}
	ps.next(n)
	t, err := ps.term()
	if err != nil {
		return nil, err
	}
	n.add(t)
	s, err := ps.sumOp()
	if err != nil {
		return nil, err
	}
	n.add(s)
	return n, nil
}

func (ps *Parser) signedTerm() (*Node, error) {
	n := &Node{Sym: SymSignedTerm}
	if ps.look.Sym == SymPlusMinus {
		ps.trace("signed_term -> PLUSMINUS term")
		ps.next(n)
	} else {
		ps.trace("signed_term -> term")
	}
	t, err := ps.term()
	if err != nil {
		return nil, err
	}
	n.add(t)
	return n, nil
}

func (ps *Parser) term() (*Node, error) {
	ps.trace("term -> factor term_op")
	n := &Node{Sym: SymTerm}
	f, err := ps.factor()
	if err != nil {
		return nil, err
	}
	n.add(f)
	t, err := ps.termOp()
	if err != nil {
		return nil, err
	}
	n.add(t)
	return n, nil
}

func (ps *Parser) termOp() (*Node, error) {
	if ps.look.Sym != SymMultDiv {
		return nil, nil
	}
	ps.trace("term_op -> MULTDIV signed_factor term_op")
	n := &Node{Sym: SymTermOp}
	ps.next(n)
	f, err := ps.signedFactor()
	if err != nil {
		return nil, err
	}
	n.add(f)
	t, err := ps.termOp()
	if err != nil {
		return nil, err
	}
	n.add(t)
	return n, nil
}

func (ps *Parser) signedFactor() (*Node, error) {
	n := &Node{Sym: SymSignedFactor}
	if ps.look.Sym == SymPlusMinus {
		ps.trace("signed_factor -> PLUSMINUS factor")
		ps.next(n)
	} else {
		ps.trace("signed_factor -> factor")
	}
	f, err := ps.factor()
	if err != nil {
		return nil, err
	}
	n.add(f)
	return n, nil
}

func (ps *Parser) factor() (*Node, error) {
	ps.trace("factor -> argument factor_op")
	n := &Node{Sym: SymFactor}
	a, err := ps.argument()
	if err != nil {
		return nil, err
	}
	n.add(a)
	f, err := ps.factorOp()
	if err != nil {
		return nil, err
	}
	n.add(f)
	return n, nil
}

func (ps *Parser) factorOp() (*Node, error) {
	if ps.look.Sym != SymRaised {
		return nil, nil
	}
	ps.trace("factor_op -> RAISED signed_factor")
	n := &Node{Sym: SymFactorOp}
	ps.next(n)
	f, err := ps.signedFactor()
	if err != nil {
		return nil, err
	}
	n.add(f)
	return n, nil
}

func (ps *Parser) argument() (*Node, error) {
	n := &Node{Sym: SymArgument}
	switch ps.look.Sym {
	case SymFunction:
		ps.trace("argument -> FUNCTION argument")
		ps.next(n)
		a, err := ps.argument()
		if err != nil {
			return nil, err
		}
		n.add(a)
	case SymOpenParen:
		ps.trace("argument -> OPEN_PAREN expression CLOSE_PAREN")
		ps.next(n)
		e, err := ps.expression()
		if err != nil {
			return nil, err
		}
		n.add(e)
		if ps.look.Sym != SymCloseParen {
			return nil, &SyntaxError{Want: SymCloseParen, Got: ps.look}
		}
		ps.next(n)
	default:
		ps.trace("argument -> value")
		v, err := ps.value()
		if err != nil {
			return nil, err
		}
		n.add(v)
	}
	return n, nil
}

func (ps *Parser) value() (*Node, error) {
	if ps.look.Sym != SymNumber {
		return nil, &SyntaxError{Want: SymNumber, Got: ps.look}
	}
	ps.trace("value -> NUMBER")
	n := &Node{Sym: SymValue}
	ps.next(n)
	return n, nil
}
