// Package parser turns raw filter text into predicate tokens.
//
// Parsing is driven by a Config that names the operators a domain
// understands: value operators ("age gt 25"), no-value operators
// ("email isNotNull"), the valid field names and the logical connectives.
// Configs are immutable once built and are shared through a Registry keyed
// by domain name.
//
// Parse never fails. Unknown fields are dropped, unrecognized operators are
// dropped with their key unless the config allows unknown operators, and a
// value operator with nothing after it degrades to a key-only token.
package parser
