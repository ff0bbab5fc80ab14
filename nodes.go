package rdexpr

import (
	"io"
	"strings"
)

// Node is a node in the syntax tree of an expression. Each node corresponds
// to one application of a grammar production. Productions that derive the
// empty string produce no node at all, so callers must tolerate missing
// children.
type Node struct {
	// Sym is the grammar symbol of the production that created the node.
	Sym Symbol
	// Tok is the token the production consumed, if any. Parenthesized
	// arguments consume both brackets and keep the closing one.
	Tok *Token
	// Kids are the child nodes in input order.
	Kids []*Node
}

// add appends a child if it is non-nil.
func (n *Node) add(kid *Node) {
	if kid != nil {
		n.Kids = append(n.Kids, kid)
	}
}

// op returns the text of the node's token, or the empty string if it has
// none.
func (n *Node) op() string {
	if n.Tok == nil {
		return ""
	}
	return n.Tok.Text
}

// String formats the tree as nested symbols, with token text in square
// brackets, e.g. VALUE[2] or SUM_OP[+](TERM(...)).
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	b.WriteString(n.Sym.String())
	if n.Tok != nil {
		b.WriteByte('[')
		b.WriteString(n.Tok.Text)
		b.WriteByte(']')
	}
	if len(n.Kids) == 0 {
		return
	}
	b.WriteByte('(')
	for i, k := range n.Kids {
		if i > 0 {
			b.WriteByte(' ')
		}
		k.fmt(b)
	}
	b.WriteByte(')')
}

// Walk calls f for n and each of its descendants in depth-first pre-order. If
// f returns false, Walk does not descend into that node's children.
func (n *Node) Walk(f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, k := range n.Kids {
		k.Walk(f)
	}
}

// RPNNeg is the RPN token for unary negation.
const RPNNeg = "neg"

// RPN renders the tree in reverse Polish notation. Brackets are dropped,
// unary minus is written as RPNNeg, unary plus is dropped, and juxtaposed
// expressions are joined by explicit multiplication. Sums and products keep
// their left-to-right grouping, so evaluating the result with EvalRPN gives
// the same value as Eval.
func (n *Node) RPN() []string {
	if n == nil {
		return nil
	}
	return n.rpn(nil)
}

func (n *Node) rpn(out []string) []string {
	switch n.Sym {
	case SymRoot:
		for i, k := range n.Kids {
			out = k.rpn(out)
			if i > 0 {
				out = append(out, "*")
			}
		}
	case SymSumOp, SymTermOp:
		// The operator applies to everything to its left and its first child.
		// The rest of the tail comes after.
		if len(n.Kids) == 0 {
			break
		}
		out = n.Kids[0].rpn(out)
		if n.Tok != nil {
			out = append(out, n.Tok.Text)
		}
		for _, k := range n.Kids[1:] {
			out = k.rpn(out)
		}
	case SymSignedTerm, SymSignedFactor:
		for _, k := range n.Kids {
			out = k.rpn(out)
		}
		if n.op() == "-" {
			out = append(out, RPNNeg)
		}
	default:
		for _, k := range n.Kids {
			out = k.rpn(out)
		}
		if n.Tok != nil && n.Tok.Sym != SymOpenParen && n.Tok.Sym != SymCloseParen {
			out = append(out, n.Tok.Text)
		}
	}
	return out
}

// WriteRPN writes the RPN rendering of n to w as space-separated tokens
// followed by a newline.
func WriteRPN(w io.Writer, n *Node) error {
	_, err := io.WriteString(w, strings.Join(n.RPN(), " ")+"\n")
	return err
}

// Depth returns the height of the tree rooted at n.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	d := 0
	for _, k := range n.Kids {
		if kd := k.Depth(); kd > d {
			d = kd
		}
	}
	return d + 1
}
