package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, nil},
		{"string", "active", String("active")},
		{"int", 18, Int(18)},
		{"int64", int64(-3), Int(-3)},
		{"bool", true, Bool(true)},
		{"float rendered as string", 2.5, String("2.5")},
		{"whole float", float64(30), String("30")},
		{"json integer", json.Number("42"), Int(42)},
		{"json decimal", json.Number("4.2"), String("4.2")},
		{"value passes through", Bool(false), Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueOf(tt.in))
		})
	}
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "", ValueText(nil))
	assert.Equal(t, "active", ValueText(String("  active ")))
	assert.Equal(t, "18", ValueText(Int(18)))
	assert.Equal(t, "false", ValueText(Bool(false)))
}
