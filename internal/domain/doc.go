// Package domain describes the fields and operations of one filterable
// entity and derives its parser.Config.
//
// A domain is written in YAML or CUE:
//
//	name: users
//	fields: [age, status, email]
//	operations:
//	  - name: greaterThan
//	    operator: gt
//	    type: with_arg
//	  - name: isNotNull
//	    operator: isNotNull
//	    type: no_value
//
// Operation types decide how an operator is parsed. with_arg and with_list
// operators take a value, no_value operators take none, and the no_op_*
// types have no operator at all: "field value" or a bare "field".
package domain
