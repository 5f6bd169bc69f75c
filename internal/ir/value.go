package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a sealed interface representing the scalar carried by a Token.
// Only String, Int and Bool implement this.
// There is no Float: ValueOf renders floats to String so hashes stay stable.
type Value interface {
	fmt.Stringer
	value() // Sealed - only these types implement it
}

// String is a textual token value. Parsed values are always String.
type String string

func (String) value() {}

func (s String) String() string { return string(s) }

// Int is an integer token value.
// Always int64, never float64.
type Int int64

func (Int) value() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Bool is a boolean token value.
type Bool bool

func (Bool) value() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// ValueOf converts a Go scalar into a Value.
// nil yields nil (absent value). Values pass through unchanged.
// Floats and any other type are rendered with their default text form.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case nil:
		return nil
	case Value:
		return val
	case string:
		return String(val)
	case int:
		return Int(val)
	case int32:
		return Int(val)
	case int64:
		return Int(val)
	case uint:
		return Int(val)
	case uint32:
		return Int(val)
	case bool:
		return Bool(val)
	case float64:
		return String(strconv.FormatFloat(val, 'f', -1, 64))
	case float32:
		return String(strconv.FormatFloat(float64(val), 'f', -1, 32))
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i)
		}
		return String(val.String())
	case fmt.Stringer:
		return String(val.String())
	default:
		return String(fmt.Sprintf("%v", val))
	}
}

// ValueText returns the trimmed text of v, or "" when v is absent.
// This is the form used by value comparisons.
func ValueText(v Value) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// nativeValue returns the JSON-native Go form of v for canonical marshaling.
func nativeValue(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Bool:
		return bool(val)
	default:
		return nil
	}
}
