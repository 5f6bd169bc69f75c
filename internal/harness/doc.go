// Package harness runs filter-algebra scenarios as executable contract tests.
//
// A scenario parses filters under a domain, applies a sequence of edits to
// a filters.Store and asserts on the final clauses. Every step records the
// store's sorted clauses in a trace, which can be compared against a
// golden file.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	domain: ../domains/users.yaml   # optional, relative to the scenario file
//	domain_name: users              # optional, needed when the file has several
//	steps:
//	  - parse: ["age gt 18 and status eq active", "email isNotNull"]
//	  - replace: {find: ["age gt 18"], with: ["age gt 21"]}
//	  - modify: {change: ["status eq inactive"], strategy: key_op}
//	  - remove_full: {find: ["email"], strategy: key}
//	  - remove_exact: ["and status eq inactive"]
//	  - remove_matching: {find: ["status"], strategy: key}
//	  - collapse: and
//	  - transport: '[{"key":"age","op":"gt","value":21}]'
//	assertions:
//	  - type: clauses
//	    clauses: ["age gt 21"]
//
// Each step sets exactly one operation. Expressions are parsed with the
// scenario's domain config, or permissively when no domain is given.
//
// # Assertion Types
//
//   - clauses: the sorted canonical clauses equal the given list
//   - clause_count: the store holds exactly count clauses
//   - contains / not_contains: a clause with the given canonical string exists (or not)
//   - matches: some clause matches the tokens of expr under strategy
//   - transport: the transport form equals the given JSON byte for byte
package harness
