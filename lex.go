package rdexpr

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Token is a matched piece of input along with the terminal it represents.
type Token struct {
	// Text is the matched input.
	Text string
	// Sym is the terminal symbol of the token, or SymEpsilon for the end of
	// input.
	Sym Symbol
	// Pos is the 1-based byte column at which the token starts.
	Pos int
}

func (t Token) String() string {
	return t.Sym.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// eof reports whether t is the end-of-input sentinel.
func (t Token) eof() bool {
	return t.Sym == SymEpsilon
}

// describe gives a human-readable rendering of the token for error messages.
func (t Token) describe() string {
	if t.eof() {
		return "end of input"
	}
	return strconv.Quote(t.Text)
}

// TokenPattern pairs an anchored regular expression with the terminal it
// produces.
type TokenPattern struct {
	re  *regexp.Regexp
	sym Symbol
}

// Symbol returns the terminal the pattern produces.
func (p TokenPattern) Symbol() Symbol {
	return p.sym
}

// String returns the pattern's regular expression, including its anchor.
func (p TokenPattern) String() string {
	return p.re.String()
}

// Tokenizer converts strings to token sequences by trying its patterns in the
// order they were added. The first pattern to match at the current position
// wins. A Tokenizer must not be modified while it is tokenizing, but any
// number of goroutines may tokenize with it concurrently otherwise.
type Tokenizer struct {
	pats []TokenPattern
}

// NewTokenizer creates a tokenizer with no patterns.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Add registers a pattern producing sym. expr is anchored to the current
// scanning position. The symbol must be a terminal.
func (tk *Tokenizer) Add(expr string, sym Symbol) error {
	if !sym.Terminal() {
		return errors.New("rdexpr: pattern for non-terminal symbol " + sym.String())
	}
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return err
	}
	tk.pats = append(tk.pats, TokenPattern{re: re, sym: sym})
	return nil
}

// MustAdd is like Add but panics if the pattern is invalid.
func (tk *Tokenizer) MustAdd(expr string, sym Symbol) *Tokenizer {
	if err := tk.Add(expr, sym); err != nil {
		panic(err)
	}
	return tk
}

// Patterns returns a copy of the tokenizer's patterns in match order.
func (tk *Tokenizer) Patterns() []TokenPattern {
	return append([]TokenPattern(nil), tk.pats...)
}

// Tokenize scans src into tokens. Whitespace between tokens is skipped. If
// some remaining input matches no pattern, scanning stops, and the result is
// the tokens scanned so far along with a *LexError.
func (tk *Tokenizer) Tokenize(src string) ([]Token, error) {
	var toks []Token
	p := 0
	for {
		rest := strings.TrimLeftFunc(src[p:], unicode.IsSpace)
		p = len(src) - len(rest)
		if rest == "" {
			return toks, nil
		}
		tok, ok := tk.match(rest)
		if !ok {
			return toks, &LexError{
				Text: strings.TrimRightFunc(rest, unicode.IsSpace),
				Col:  p + 1,
			}
		}
		tok.Pos = p + 1
		toks = append(toks, tok)
		p += len(tok.Text)
	}
}

// match finds the first pattern matching a non-empty prefix of s.
func (tk *Tokenizer) match(s string) (Token, bool) {
	for _, pat := range tk.pats {
		loc := pat.re.FindStringIndex(s)
		// Empty matches would never advance.
		if loc == nil || loc[1] == 0 {
			continue
		}
		return Token{Text: s[:loc[1]], Sym: pat.sym}, true
	}
	return Token{}, false
}

// Function names, as matched by the default tokenizer. Each has a
// corresponding entry in the evaluators' function tables.
const FunctionNames = "sin|cos|tan|exp|sqrt"

var deftokenizer = NewTokenizer().
	MustAdd(FunctionNames, SymFunction).
	MustAdd(`\(`, SymOpenParen).
	MustAdd(`\)`, SymCloseParen).
	MustAdd(`[+-]`, SymPlusMinus).
	MustAdd(`[*/]`, SymMultDiv).
	MustAdd(`\^`, SymRaised).
	MustAdd(`[0-9]+(?:\.[0-9]+)?`, SymNumber)

// DefaultTokenizer returns the tokenizer for the standard expression syntax.
// The returned tokenizer is shared; callers that want to extend it should
// build their own with NewTokenizer.
func DefaultTokenizer() *Tokenizer {
	return deftokenizer
}

// Tokenize scans src using the default tokenizer.
func Tokenize(src string) ([]Token, error) {
	return deftokenizer.Tokenize(src)
}

// LexError indicates input that matches no token pattern. It implements
// InputError.
type LexError struct {
	// Text is the unmatched remainder of the input.
	Text string
	// Col is the 1-based byte column where the unmatched input starts.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "invalid token: "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
