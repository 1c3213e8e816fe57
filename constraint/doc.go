// Package constraint declares the shape of a circuit: its typed columns,
// the gates enforced on them and the equality permissions copy constraints
// rely on.
//
// A System is built once, either directly or through frontend.Compile, and
// is immutable afterwards; it carries no witness values. Gates are named
// polynomial identities over column queries at relative row offsets, each
// gated by a selector column.
package constraint
