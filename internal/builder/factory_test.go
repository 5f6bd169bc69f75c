package builder

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minidsl/internal/domain"
)

func TestFactoriesRegisterDomain(t *testing.T) {
	f := NewFactories()
	require.NoError(t, f.RegisterDomain(usersDomain()))

	q, err := f.New("users")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "users", q.Domain().Name)

	other, err := f.New("users")
	require.NoError(t, err)
	assert.NotSame(t, q, other, "each call returns a fresh query")
}

func TestFactoriesRegisterErrors(t *testing.T) {
	f := NewFactories()
	noop := func() (*Query, error) { return New(nil), nil }

	require.NoError(t, f.Register("a", noop))
	assert.Error(t, f.Register("a", noop), "duplicate name")
	assert.Error(t, f.Register("", noop), "empty name")
	assert.Error(t, f.Register("b", nil), "nil factory")
	assert.Error(t, f.RegisterDomain(nil))

	err := f.RegisterDomain(&domain.Domain{Name: "bad"})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	assert.Equal(t, []string{"a"}, f.Names())
}

func TestFactoriesNewErrors(t *testing.T) {
	cause := errors.New("boom")
	f := NewFactories()
	require.NoError(t, f.Register("failing", func() (*Query, error) { return nil, cause }))
	require.NoError(t, f.Register("nil", func() (*Query, error) { return nil, nil }))
	require.NoError(t, f.Register("panics", func() (*Query, error) { panic("bad constructor") }))

	tests := []struct {
		name   string
		domain string
		reason string
	}{
		{"unknown", "missing", "no factory registered"},
		{"failing", "failing", "factory failed"},
		{"nil result", "nil", "factory returned nil"},
		{"panic", "panics", "factory panicked: bad constructor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := f.New(tt.domain)
			require.Error(t, err)
			assert.Nil(t, q)
			assert.True(t, IsInstantiationError(err))

			var ie *InstantiationError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.domain, ie.Domain)
			assert.Equal(t, tt.reason, ie.Reason)
		})
	}

	_, err := f.New("failing")
	assert.ErrorIs(t, err, cause)
}

func TestFactoriesNames(t *testing.T) {
	f := NewFactories()
	for _, name := range []string{"orders", "users", "products"} {
		require.NoError(t, f.Register(name, func() (*Query, error) { return New(nil), nil }))
	}
	assert.Equal(t, []string{"orders", "products", "users"}, f.Names())
}

func TestFactoriesConcurrentUse(t *testing.T) {
	f := NewFactories()
	require.NoError(t, f.RegisterDomain(usersDomain()))

	const workers = 32
	var wg sync.WaitGroup
	results := make([][]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q, err := f.New("users")
			if err != nil {
				errs[i] = err
				return
			}
			q, err = q.Field("age").With("gt", i).Parse("email isNotNull")
			errs[i] = err
			if err == nil {
				results[i] = q.Strings()
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"email isNotNull"}, results[i])
	}
}
