package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minidsl/internal/ir"
	"github.com/roach88/minidsl/internal/parser"
)

func loadUsers(t *testing.T) *Domain {
	t.Helper()
	domains, err := LoadFile(filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)
	require.Len(t, domains, 1)
	return domains[0]
}

func TestOperationTypeShapes(t *testing.T) {
	tests := []struct {
		typ         OperationType
		hasOperator bool
		takesValue  bool
		isList      bool
	}{
		{WithArg, true, true, false},
		{WithList, true, true, true},
		{NoValue, true, false, false},
		{NoOpWithArg, false, true, false},
		{NoOpWithList, false, true, true},
		{NoOpNoValue, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.True(t, tt.typ.Valid())
			assert.Equal(t, tt.hasOperator, tt.typ.HasOperator())
			assert.Equal(t, tt.takesValue, tt.typ.TakesValue())
			assert.Equal(t, tt.isList, tt.typ.IsList())
		})
	}
	assert.False(t, OperationType("with_args").Valid())
}

func TestDomainConfigOptions(t *testing.T) {
	d := loadUsers(t)

	opts := d.ConfigOptions()
	assert.Equal(t, []string{"gt", "lt", "eq", "in"}, opts.ValueOperators)
	assert.Equal(t, []string{"isNotNull"}, opts.NoValueOperators)
	assert.Equal(t, []string{"age", "status", "name", "email", "tags"}, opts.ValidFields)
	assert.Empty(t, opts.LogicalOperators)
	assert.False(t, opts.AllowUnknownOperators)
}

func TestDomainConfigOptionsIgnoresOperatorOnNoOp(t *testing.T) {
	d := &Domain{
		Name: "x",
		Operations: []Operation{
			{Name: "is", Operator: "is", Type: NoOpWithArg},
			{Name: "eq", Operator: "eq", Type: WithArg},
			{Name: "eq2", Operator: "eq", Type: WithArg},
		},
	}

	opts := d.ConfigOptions()
	assert.Equal(t, []string{"eq"}, opts.ValueOperators)
	assert.Empty(t, opts.NoValueOperators)
}

func TestDomainParseConfig(t *testing.T) {
	d := loadUsers(t)

	cfg, err := d.ParseConfig()
	require.NoError(t, err)

	tokens := parser.Parse("age gt 25 and email isNotNull or bogus eq 1", cfg)
	require.Len(t, tokens, 4)
	assert.Equal(t, "age gt 25", tokens[0].Format())
	assert.Equal(t, "email isNotNull", tokens[2].Format())
	assert.True(t, tokens[3].IsLogical())
}

func TestDomainParseConfigInvalid(t *testing.T) {
	d := &Domain{Name: "broken", Operations: []Operation{{Name: "gt", Type: WithArg}}}

	_, err := d.ParseConfig()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), ErrOperatorRequired)
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestDomainParseConfigConflict(t *testing.T) {
	d := &Domain{
		Name: "conflict",
		Operations: []Operation{
			{Name: "a", Operator: "x", Type: WithArg},
			{Name: "b", Operator: "x", Type: NoValue},
		},
	}

	_, err := d.ParseConfig()
	require.Error(t, err)
	assert.True(t, parser.IsConfigError(err))
}

func TestDomainConfigCached(t *testing.T) {
	d := loadUsers(t)
	reg := parser.NewRegistry()

	first, err := d.Config(reg)
	require.NoError(t, err)
	second, err := d.Config(reg)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, reg.Len())
}

func TestDomainLookups(t *testing.T) {
	d := loadUsers(t)

	op, ok := d.Operation("in")
	require.True(t, ok)
	assert.Equal(t, WithList, op.Type)
	assert.Equal(t, ", ", op.Delimiter())

	op, ok = d.Operation("greaterThan")
	require.True(t, ok)
	assert.Equal(t, " ", op.Delimiter())

	_, ok = d.Operation("nope")
	assert.False(t, ok)

	assert.True(t, d.HasField("AGE"))
	assert.False(t, d.HasField("height"))
	assert.True(t, (&Domain{}).HasField("anything"))
}

func TestDomainValidate(t *testing.T) {
	valid := func() *Domain {
		return &Domain{
			Name:       "users",
			Fields:     []string{"age"},
			Operations: []Operation{{Name: "gt", Operator: "gt", Type: WithArg}},
		}
	}

	tests := []struct {
		name   string
		mutate func(d *Domain)
		code   string
	}{
		{"empty name", func(d *Domain) { d.Name = " " }, ErrDomainNameEmpty},
		{"no operations", func(d *Domain) { d.Operations = nil }, ErrNoOperations},
		{"bad operation name", func(d *Domain) { d.Operations[0].Name = "greater than" }, ErrOperationNameInvalid},
		{"duplicate operation", func(d *Domain) {
			d.Operations = append(d.Operations, Operation{Name: "gt", Operator: "ge", Type: WithArg})
		}, ErrDuplicateOperation},
		{"unknown type", func(d *Domain) { d.Operations[0].Type = "sometimes" }, ErrInvalidOperationType},
		{"missing operator", func(d *Domain) { d.Operations[0].Operator = "" }, ErrOperatorRequired},
		{"operator with space", func(d *Domain) { d.Operations[0].Operator = "greater than" }, ErrOperatorWhitespace},
		{"empty field", func(d *Domain) { d.Fields = append(d.Fields, "") }, ErrFieldInvalid},
		{"duplicate field", func(d *Domain) { d.Fields = append(d.Fields, "AGE") }, ErrDuplicateField},
		{"brackets on scalar", func(d *Domain) { d.Operations[0].ListBrackets = "[]" }, ErrInvalidBrackets},
	}

	require.Empty(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)

			errs := d.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestDomainNoOpOperationBuildsNothing(t *testing.T) {
	d := loadUsers(t)
	cfg, err := d.ParseConfig()
	require.NoError(t, err)

	// "status active" is a no_op_with_arg shape: "active" is not an
	// operator, so the pair is dropped under a strict config.
	tokens := parser.Parse("status active", cfg)
	assert.Empty(t, tokens)

	tokens = parser.Parse("status", cfg)
	assert.Equal(t, []*ir.Token{{Key: "status"}}, tokens)
}
