// Package ir provides the expression model for minidsl filter expressions.
//
// This package contains the leaf types only. All other internal packages
// import ir; ir imports nothing internal. This keeps the expression model
// the foundational layer with no circular dependencies.
//
// The model has three parts:
//   - Token: one key/operator/value triple, or a reserved logical or
//     grouping marker (and, or, "(", ")")
//   - Clause: an ordered token sequence with a cached canonical string
//   - Strategy: a comparator over token fields used by replace/remove/match
//
// Key design constraints:
//   - Clause equality, hashing and ordering derive ONLY from the canonical
//     string (ordinal comparison)
//   - Every structural mutation of a Clause invalidates its caches
//   - Tokens are owned by exactly one Clause; operations that splice tokens
//     between clauses copy them
//   - NO float values - floats are rendered to String at construction
package ir
