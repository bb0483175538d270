package strategy

import (
	"fmt"
	"sort"
)

// Factory resolves strategies by registry key.
type Factory interface {
	// Get returns the Calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered names in sorted order.
	List() []string
}

// ErrUnknownStrategy is returned by Get for names that were never registered.
type ErrUnknownStrategy struct {
	Name string
}

func (e ErrUnknownStrategy) Error() string {
	return fmt.Sprintf("unknown strategy: %s", e.Name)
}

// DefaultFactory is the default implementation of Factory. Calculators are
// created once, on registration.
type DefaultFactory struct {
	calculators map[string]Calculator
}

// NewDefaultFactory creates a factory with the built-in strategies:
//   - "pisano": PisanoTable (O(m) table, O(π(m)) evaluation)
//   - "doubling": FastDoubling (O(log n), no table)
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{calculators: make(map[string]Calculator)}
	f.Register(NamePisano, PisanoTable{})
	f.Register(NameDoubling, FastDoubling{})
	return f
}

// NewTestFactory creates a factory from ready-made calculators, for tests
// that need to stub strategies out.
func NewTestFactory(calculators map[string]Calculator) *DefaultFactory {
	f := &DefaultFactory{calculators: make(map[string]Calculator, len(calculators))}
	for name, calc := range calculators {
		f.calculators[name] = calc
	}
	return f
}

// Register adds or replaces the strategy stored under name.
func (f *DefaultFactory) Register(name string, core coreStrategy) {
	f.calculators[name] = NewCalculator(core)
}

// Get returns the Calculator registered under name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, ErrUnknownStrategy{Name: name}
	}
	return calc, nil
}

// List returns the sorted registry keys.
func (f *DefaultFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
