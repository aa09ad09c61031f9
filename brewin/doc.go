// Package brewin implements the execution engine for Brewin, a small
// class-based language written as parenthesized S-expressions:
//   - Classes with typed fields and methods, single inheritance via
//     `(class child inherits parent ...)`, and dynamic dispatch.
//   - Statements: begin, set, if, while, return, call, inputs, inputi,
//     print and let blocks with block-scoped typed locals.
//   - Expressions: literals, variables, arithmetic, comparison, boolean
//     `&`/`|`/`!` (both operands always evaluated), method calls and `new`.
//   - Static types int, bool, string and class types, checked at runtime.
//
// Comments beginning with `#` run to the end of the line. Every error is
// fatal: it unwinds to the host as an *Error carrying its kind (NameError,
// TypeError, FaultError or SyntaxError) and the source line.
package brewin
