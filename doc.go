// Package rdexpr implements a recursive-descent parser and evaluator for
// arithmetic expressions.
//
// Expressions are built from numbers, the operators + - * / and ^, round
// brackets, and the functions sin, cos, tan, exp, and sqrt. "-2^2" is the same
// as "-(2^2)", and "2^3^2" is "2^(3^2)". Bracketed groups written next to each
// other multiply, so "(5*5)(2)" is 50.
//
// Parsing follows a fixed LL(1) grammar, and the resulting tree keeps one node
// per grammar production so that it can be inspected, printed in reverse
// Polish notation, or evaluated with float64 or arbitrary-precision
// arithmetic.
package rdexpr
