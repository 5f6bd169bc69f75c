// Package filters holds the completed clauses of a query under
// construction.
//
// A Store is an ordered list of ir.Clause values with a cached sorted view.
// Every mutation marks the view dirty; Sorted and Strings recompute it on
// next use. Collapse merges a list of clauses into one, inserting a joining
// token between clauses in canonical order, so identical filter sets render
// identically regardless of the order they were built in.
//
// The transport form is a flat JSON array of {key?, op?, value?} objects.
// Clause boundaries are not kept across it.
package filters
