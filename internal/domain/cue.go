package domain

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileCUE parses a CUE value into a Domain.
//
// The value is the domain struct itself; its label is the domain name:
//
//	domain: users: {
//		fields: ["age", "status"]
//		operations: {
//			greaterThan: {operator: "gt", type: "with_arg"}
//			isNotNull: {operator: "isNotNull", type: "no_value"}
//		}
//	}
//
// Operations are a struct keyed by name, taken in declaration order.
func CompileCUE(v cue.Value) (*Domain, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	d := &Domain{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		d.Name = labels[len(labels)-1].Unquoted()
	}

	var err error
	if d.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if d.Fields, err = optionalStrings(v, "fields"); err != nil {
		return nil, err
	}
	if d.LogicalOperators, err = optionalStrings(v, "logical_operators"); err != nil {
		return nil, err
	}

	if allow := v.LookupPath(cue.ParsePath("allow_unknown_operators")); allow.Exists() {
		b, err := allow.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		d.AllowUnknownOperators = b
	}

	opsVal := v.LookupPath(cue.ParsePath("operations"))
	if !opsVal.Exists() {
		return nil, &CompileError{
			Field:   "operations",
			Message: "operations are required",
			Pos:     v.Pos(),
		}
	}
	iter, err := opsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		op, err := compileOperation(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		d.Operations = append(d.Operations, op)
	}

	return d, nil
}

func compileOperation(name string, v cue.Value) (Operation, error) {
	op := Operation{Name: name}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return op, &CompileError{
			Field:   "operations." + name + ".type",
			Message: "type is required",
			Pos:     v.Pos(),
		}
	}
	t, err := typeVal.String()
	if err != nil {
		return op, formatCUEError(err)
	}
	op.Type = OperationType(t)
	if !op.Type.Valid() {
		return op, &CompileError{
			Field:   "operations." + name + ".type",
			Message: fmt.Sprintf("unknown operation type %q", t),
			Pos:     typeVal.Pos(),
		}
	}

	if op.Operator, err = optionalString(v, "operator"); err != nil {
		return op, err
	}
	if op.Description, err = optionalString(v, "description"); err != nil {
		return op, err
	}
	if op.ListDelimiter, err = optionalString(v, "list_delimiter"); err != nil {
		return op, err
	}
	if op.ListBrackets, err = optionalString(v, "list_brackets"); err != nil {
		return op, err
	}
	return op, nil
}

func optionalString(v cue.Value, path string) (string, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", nil
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalStrings(v cue.Value, path string) ([]string, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return nil, nil
	}
	iter, err := val.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
