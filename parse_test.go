package rdexpr

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbols(t *testing.T) {
	terms := []Symbol{SymFunction, SymOpenParen, SymCloseParen, SymPlusMinus, SymMultDiv, SymRaised, SymNumber}
	nonterms := []Symbol{SymRoot, SymEpsilon, SymExpression, SymSumOp, SymSignedTerm, SymTerm, SymTermOp, SymSignedFactor, SymFactor, SymFactorOp, SymArgument, SymValue}
	seen := map[string]bool{}
	for _, s := range terms {
		assert.True(t, s.Terminal(), "%v", s)
		assert.True(t, s.Valid(), "%v", s)
		assert.False(t, seen[s.String()], "duplicate name %v", s)
		seen[s.String()] = true
	}
	for _, s := range nonterms {
		assert.False(t, s.Terminal(), "%v", s)
		assert.True(t, s.Valid(), "%v", s)
		assert.False(t, seen[s.String()], "duplicate name %v", s)
		seen[s.String()] = true
	}
	assert.False(t, symNone.Valid())
	assert.False(t, Symbol(99).Valid())
	assert.Equal(t, "Symbol(99)", Symbol(99).String())
	assert.Equal(t, "SIGNED_FACTOR", SymSignedFactor.String())
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		tree string
	}{
		{"num", "1", "ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[1]))))))"},
		{"neg", "-1", "ROOT(EXPRESSION(SIGNED_TERM[-](TERM(FACTOR(ARGUMENT(VALUE[1]))))))"},
		{
			"add",
			"1+2",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[1])))) SUM_OP[+](TERM(FACTOR(ARGUMENT(VALUE[2]))))))",
		},
		{
			"sub3",
			"1-2-3",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[1])))) SUM_OP[-](TERM(FACTOR(ARGUMENT(VALUE[2]))) SUM_OP[-](TERM(FACTOR(ARGUMENT(VALUE[3])))))))",
		},
		{
			"mulneg",
			"2*-3",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[2])) TERM_OP[*](SIGNED_FACTOR[-](FACTOR(ARGUMENT(VALUE[3]))))))))",
		},
		{
			"pow",
			"2^3",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[2]) FACTOR_OP[^](SIGNED_FACTOR(FACTOR(ARGUMENT(VALUE[3])))))))))",
		},
		{
			"powneg",
			"2^-3",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[2]) FACTOR_OP[^](SIGNED_FACTOR[-](FACTOR(ARGUMENT(VALUE[3])))))))))",
		},
		{
			"paren",
			"(1)",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT[)](EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[1])))))))))))",
		},
		{
			"func",
			"sqrt 4",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT[sqrt](ARGUMENT(VALUE[4])))))))",
		},
		{
			"funcfunc",
			"exp sin 0",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT[exp](ARGUMENT[sin](ARGUMENT(VALUE[0]))))))))",
		},
		{
			"juxtapose",
			"(1)(2)",
			"ROOT(" +
				"EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT[)](EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[1])))))))))) " +
				"EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT[)](EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[2]))))))))))" +
				")",
		},
		{
			"numbers",
			"1 2",
			"ROOT(EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[1]))))) EXPRESSION(SIGNED_TERM(TERM(FACTOR(ARGUMENT(VALUE[2]))))))",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := Parse(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			if got := n.String(); got != c.tree {
				t.Errorf("wrong tree for %q:\n\twant %s\n\tgot  %s", c.src, c.tree, got)
			}
		})
	}
}

func TestParseInvariants(t *testing.T) {
	srcs := []string{
		"(5*5)(-5 + 100 * (2))",
		"-2^2",
		"2^3^2",
		"sin(1)cos(2)tan(3)",
		"sqrt sqrt 16 / -2 * +4 - 3",
	}
	for _, src := range srcs {
		n, err := Parse(src)
		require.NoError(t, err, src)
		require.Equal(t, SymRoot, n.Sym, src)
		for _, k := range n.Kids {
			assert.Equal(t, SymExpression, k.Sym, src)
		}
		var toks []string
		n.Walk(func(m *Node) bool {
			require.True(t, m.Sym.Valid(), "invalid symbol in %s", src)
			require.False(t, m.Sym.Terminal(), "terminal node symbol in %s", src)
			if m.Sym == SymValue {
				require.NotNil(t, m.Tok, "VALUE without token in %s", src)
				assert.Equal(t, SymNumber, m.Tok.Sym)
				assert.Empty(t, m.Kids)
			}
			if m.Tok != nil {
				toks = append(toks, m.Tok.Text)
			}
			return true
		})
		// Every token but open brackets ends up in the tree.
		want := 0
		all, err := Tokenize(src)
		require.NoError(t, err)
		for _, tok := range all {
			if tok.Sym != SymOpenParen {
				want++
			}
		}
		assert.Len(t, toks, want, src)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "   ", "\t\n"} {
		n, err := Parse(src)
		assert.NoError(t, err, "%q", src)
		assert.Nil(t, n, "%q", src)
	}
	n, err := NewParser(nil).Parse()
	assert.NoError(t, err)
	assert.Nil(t, n)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want Symbol
		got  Token
	}{
		{"unclosed", "(2+3", SymCloseParen, Token{Sym: SymEpsilon, Pos: 5}},
		{"unclosed-nested", "((2)", SymCloseParen, Token{Sym: SymEpsilon, Pos: 5}},
		{"close", ")", SymNumber, Token{")", SymCloseParen, 1}},
		{"close-after", "2)", SymNumber, Token{")", SymCloseParen, 2}},
		{"empty-parens", "()", SymNumber, Token{")", SymCloseParen, 2}},
		{"trailing-op", "2+", SymNumber, Token{Sym: SymEpsilon, Pos: 3}},
		{"double-sign", "2+-3", SymNumber, Token{"-", SymPlusMinus, 3}},
		{"bare-func", "sqrt", SymNumber, Token{Sym: SymEpsilon, Pos: 5}},
		{"pow-pow", "2^^3", SymNumber, Token{"^", SymRaised, 3}},
		{"leading-mul", "*2", SymNumber, Token{"*", SymMultDiv, 1}},
		{"wrong-close", "(1 2)", SymCloseParen, Token{"2", SymNumber, 4}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := Parse(c.src)
			if n != nil {
				t.Errorf("%q gave a tree %v", c.src, n)
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("%q: want *SyntaxError, got %#v", c.src, err)
			}
			if serr.Want != c.want {
				t.Errorf("%q: want expected symbol %v, got %v", c.src, c.want, serr.Want)
			}
			if serr.Got != c.got {
				t.Errorf("%q: want offending token %v, got %v", c.src, c.got, serr.Got)
			}
			if serr.Pos() != c.got.Pos {
				t.Errorf("%q: want position %d, got %d", c.src, c.got.Pos, serr.Pos())
			}
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"(2+3", []string{"5:", "closing parenthesis", "end of input"}},
		{"2+)", []string{"3:", "NUMBER", "CLOSE_PAREN", `")"`}},
	}
	for _, c := range cases {
		_, err := Parse(c.src)
		require.Error(t, err, c.src)
		for _, s := range c.want {
			assert.Contains(t, err.Error(), s, c.src)
		}
	}
}

func TestParseLexError(t *testing.T) {
	n, err := Parse("2 & 3")
	assert.Nil(t, n)
	var lerr *LexError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "& 3", lerr.Text)
	var ierr InputError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 3, ierr.Pos())
}

func TestParserRepeatable(t *testing.T) {
	toks, err := Tokenize("1+2*3")
	require.NoError(t, err)
	orig := append([]Token(nil), toks...)
	p := NewParser(toks)
	a, err := p.Parse()
	require.NoError(t, err)
	b, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, orig, toks, "parser modified its tokens")
}

func TestParseTrace(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := Parse("-2^2", Trace(log))
	require.NoError(t, err)
	out := buf.String()
	for _, rule := range []string{
		"root -> expression root",
		"expression -> signed_term sum_op",
		"signed_term -> PLUSMINUS term",
		"factor_op -> RAISED signed_factor",
		"value -> NUMBER",
		"root -> ε",
	} {
		assert.Contains(t, out, rule)
	}
	assert.Equal(t, 1, strings.Count(out, "signed_term -> PLUSMINUS term"))
}

func TestParseUseTokenizer(t *testing.T) {
	// Treat x as the number 2.
	tk := NewTokenizer().
		MustAdd(`x`, SymNumber).
		MustAdd(`[*]`, SymMultDiv)
	n, err := Parse("x*x", UseTokenizer(tk))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x", "*"}, n.RPN())
	_, err = Parse("2*2", UseTokenizer(tk))
	assert.Error(t, err)
}
