package builder

import (
	"fmt"

	"github.com/roach88/minidsl/internal/domain"
	"github.com/roach88/minidsl/internal/ir"
)

// TokenAdder receives tokens. *Query and *ir.Clause implement it.
type TokenAdder interface {
	Add(t *ir.Token)
}

// FieldOps writes tokens for one field into a holder and returns the
// holder. It borrows the holder for the duration of one call.
type FieldOps[H TokenAdder] struct {
	holder H
	field  string
	domain *domain.Domain
}

// Field returns the operations for field on holder. d may be nil; only
// Apply needs it.
func Field[H TokenAdder](holder H, d *domain.Domain, field string) FieldOps[H] {
	return FieldOps[H]{holder: holder, field: field, domain: d}
}

// With adds "field op value".
func (f FieldOps[H]) With(op string, value any) H {
	return f.add(ir.NewToken(f.field, op, value))
}

// WithList adds "field op items", items sorted and space-joined.
func (f FieldOps[H]) WithList(op string, items ...any) H {
	return f.WithListFormat(op, " ", "", items...)
}

// WithListFormat adds "field op items" with an explicit delimiter and
// brackets. See ListValue.
func (f FieldOps[H]) WithListFormat(op, delimiter, brackets string, items ...any) H {
	return f.add(ir.NewToken(f.field, op, ListValue(items, delimiter, brackets)))
}

// NoValue adds "field op".
func (f FieldOps[H]) NoValue(op string) H {
	return f.add(ir.NewToken(f.field, op, nil))
}

// NoOpWithArg adds "field value".
func (f FieldOps[H]) NoOpWithArg(value any) H {
	return f.add(ir.NewToken(f.field, "", value))
}

// NoOpWithList adds "field items".
func (f FieldOps[H]) NoOpWithList(delimiter, brackets string, items ...any) H {
	return f.add(ir.NewToken(f.field, "", ListValue(items, delimiter, brackets)))
}

// NoOpNoValue adds the bare field.
func (f FieldOps[H]) NoOpNoValue() H {
	return f.add(ir.NewToken(f.field, "", nil))
}

// Apply adds the domain operation called name with args.
//
// Scalar operations take exactly one arg, list operations any number and
// no-value operations none. The field must be declared by the domain.
func (f FieldOps[H]) Apply(name string, args ...any) (H, error) {
	var zero H
	if f.domain == nil {
		return zero, fmt.Errorf("apply %s: %w", name, ErrNoDomain)
	}
	if f.field == "" || !f.domain.HasField(f.field) {
		return zero, fmt.Errorf("apply %s on %q: %w", name, f.field, ErrUnknownField)
	}
	op, ok := f.domain.Operation(name)
	if !ok {
		return zero, fmt.Errorf("apply %s on %q: %w", name, f.field, ErrUnknownOperation)
	}

	switch op.Type {
	case domain.WithArg, domain.NoOpWithArg:
		if len(args) != 1 {
			return zero, fmt.Errorf("apply %s: %w: want 1, got %d", name, ErrArgCount, len(args))
		}
	case domain.NoValue, domain.NoOpNoValue:
		if len(args) != 0 {
			return zero, fmt.Errorf("apply %s: %w: want 0, got %d", name, ErrArgCount, len(args))
		}
	}

	switch op.Type {
	case domain.WithArg:
		return f.With(op.Operator, args[0]), nil
	case domain.WithList:
		return f.WithListFormat(op.Operator, op.Delimiter(), op.ListBrackets, args...), nil
	case domain.NoValue:
		return f.NoValue(op.Operator), nil
	case domain.NoOpWithArg:
		return f.NoOpWithArg(args[0]), nil
	case domain.NoOpWithList:
		return f.NoOpWithList(op.Delimiter(), op.ListBrackets, args...), nil
	default:
		return f.NoOpNoValue(), nil
	}
}

func (f FieldOps[H]) add(t *ir.Token) H {
	f.holder.Add(t)
	return f.holder
}
