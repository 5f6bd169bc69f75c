package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Domain validation error codes (E210-E219)
const (
	ErrDomainNameEmpty      = "E210" // domain name is required
	ErrNoOperations         = "E211" // at least one operation required
	ErrOperationNameInvalid = "E212" // operation name must be an identifier
	ErrDuplicateOperation   = "E213" // duplicate operation name
	ErrInvalidOperationType = "E214" // unknown operation type
	ErrOperatorRequired     = "E215" // with_arg/with_list/no_value need an operator
	ErrOperatorWhitespace   = "E216" // operator contains whitespace or parentheses
	ErrFieldInvalid         = "E217" // empty field or field with whitespace
	ErrDuplicateField       = "E218" // field declared twice (ignoring case)
	ErrInvalidBrackets      = "E219" // list brackets on a non-list operation
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a domain validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Validate checks the domain and returns every problem found.
func (d *Domain) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "domain name is required",
			Code:    ErrDomainNameEmpty,
		})
	}

	if len(d.Operations) == 0 {
		errs = append(errs, ValidationError{
			Field:   "operations",
			Message: "at least one operation is required",
			Code:    ErrNoOperations,
		})
	}

	names := make(map[string]bool)
	for i, op := range d.Operations {
		path := fmt.Sprintf("operations[%d]", i)

		if !identifierRe.MatchString(op.Name) {
			errs = append(errs, ValidationError{
				Field:   path + ".name",
				Message: fmt.Sprintf("operation name %q is not an identifier", op.Name),
				Code:    ErrOperationNameInvalid,
			})
		} else if names[op.Name] {
			errs = append(errs, ValidationError{
				Field:   path + ".name",
				Message: fmt.Sprintf("duplicate operation name: %q", op.Name),
				Code:    ErrDuplicateOperation,
			})
		}
		names[op.Name] = true

		if !op.Type.Valid() {
			errs = append(errs, ValidationError{
				Field:   path + ".type",
				Message: fmt.Sprintf("unknown operation type %q", op.Type),
				Code:    ErrInvalidOperationType,
			})
			continue
		}

		operator := strings.TrimSpace(op.Operator)
		if op.Type.HasOperator() {
			switch {
			case operator == "":
				errs = append(errs, ValidationError{
					Field:   path + ".operator",
					Message: fmt.Sprintf("operation %q of type %s requires an operator", op.Name, op.Type),
					Code:    ErrOperatorRequired,
				})
			case strings.ContainsAny(operator, " \t\r\n()"):
				errs = append(errs, ValidationError{
					Field:   path + ".operator",
					Message: fmt.Sprintf("operator %q cannot contain whitespace or parentheses", operator),
					Code:    ErrOperatorWhitespace,
				})
			}
		}

		if !op.Type.IsList() && (op.ListBrackets != "" || op.ListDelimiter != "") {
			errs = append(errs, ValidationError{
				Field:   path + ".list_brackets",
				Message: fmt.Sprintf("operation %q of type %s does not take a list", op.Name, op.Type),
				Code:    ErrInvalidBrackets,
			})
		}
	}

	fields := make(map[string]bool)
	for i, f := range d.Fields {
		path := fmt.Sprintf("fields[%d]", i)
		trimmed := strings.TrimSpace(f)
		if trimmed == "" || strings.ContainsAny(trimmed, " \t\r\n()") {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("invalid field name %q", f),
				Code:    ErrFieldInvalid,
			})
			continue
		}
		key := strings.ToLower(trimmed)
		if fields[key] {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("duplicate field: %q", f),
				Code:    ErrDuplicateField,
			})
		}
		fields[key] = true
	}

	return errs
}
