package builder

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/roach88/minidsl/internal/domain"
)

// Factory creates an empty query for one domain.
type Factory func() (*Query, error)

// Factories maps domain names to query factories.
// Safe for concurrent use.
type Factories struct {
	byName *xsync.MapOf[string, Factory]
}

// NewFactories creates an empty factory registry.
func NewFactories() *Factories {
	return &Factories{byName: xsync.NewMapOf[string, Factory]()}
}

// Register adds fn under name. Registering a name twice is an error.
func (f *Factories) Register(name string, fn Factory) error {
	if name == "" {
		return fmt.Errorf("register factory: empty domain name")
	}
	if fn == nil {
		return fmt.Errorf("register factory %q: nil factory", name)
	}
	if _, loaded := f.byName.LoadOrStore(name, fn); loaded {
		return fmt.Errorf("register factory %q: already registered", name)
	}
	return nil
}

// RegisterDomain validates d and registers a factory returning New(d, opts...).
func (f *Factories) RegisterDomain(d *domain.Domain, opts ...QueryOption) error {
	if d == nil {
		return fmt.Errorf("register domain: nil domain")
	}
	if errs := d.Validate(); len(errs) > 0 {
		return fmt.Errorf("register domain %q: %w", d.Name, errs[0])
	}
	return f.Register(d.Name, func() (*Query, error) {
		return New(d, opts...), nil
	})
}

// New returns a fresh query for the named domain.
//
// An unknown name, a failing factory and a panicking factory all return
// *InstantiationError.
func (f *Factories) New(name string) (q *Query, err error) {
	fn, ok := f.byName.Load(name)
	if !ok {
		return nil, &InstantiationError{Domain: name, Reason: "no factory registered"}
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("query factory panicked", "domain", name, "panic", r)
			q = nil
			err = &InstantiationError{Domain: name, Reason: fmt.Sprintf("factory panicked: %v", r)}
		}
	}()

	q, err = fn()
	if err != nil {
		return nil, &InstantiationError{Domain: name, Reason: "factory failed", Err: err}
	}
	if q == nil {
		return nil, &InstantiationError{Domain: name, Reason: "factory returned nil"}
	}
	return q, nil
}

// Names returns the registered domain names in sorted order.
func (f *Factories) Names() []string {
	names := make([]string, 0, f.byName.Size())
	f.byName.Range(func(name string, _ Factory) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}
