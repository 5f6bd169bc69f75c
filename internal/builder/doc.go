// Package builder assembles filter queries from code.
//
// A Query holds the clause under construction and the store of completed
// clauses. Field returns a FieldOps that borrows the query for a single
// call and hands it back, so calls chain:
//
//	q := builder.New(users)
//	q.Field("age").With("gt", 18).And().Field("status").With("eq", "active")
//	q.Other().Field("email").NoValue("isNotNull")
//	store := q.Build()
//
// FieldOps is generic over any TokenAdder, so the same helpers can write
// straight into an ir.Clause. Factories maps domain names to query
// constructors; asking for an unknown domain is an InstantiationError.
package builder
