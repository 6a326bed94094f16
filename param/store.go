package param

import (
	"fmt"
	"math"
	"sync"
)

// Listener observes committed value changes. It runs synchronously in the
// writer's goroutine, never in the audio path, and must not write to the
// Store it is subscribed to.
type Listener func(name string, value float64)

type subscription struct {
	id uint64
	fn Listener
}

// Store owns an ordered set of parameters.
//
// Declarations happen once, before processing starts. After that, any number
// of goroutines may read values while control goroutines write them. Writers
// are serialized with each other; readers never take the writer lock.
type Store struct {
	mu     sync.RWMutex
	params []*Parameter
	index  map[string]*Parameter

	writeMu sync.Mutex

	subMu  sync.Mutex
	subs   []subscription
	nextID uint64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{index: make(map[string]*Parameter)}
}

// Declare registers a parameter and returns its handle.
func (s *Store) Declare(d Descriptor) (*Parameter, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[d.Name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateParameter, d.Name)
	}

	p := newParameter(d.clone())
	s.params = append(s.params, p)
	s.index[d.Name] = p

	return p, nil
}

// Lookup resolves a parameter handle by name.
func (s *Store) Lookup(name string) (*Parameter, bool) {
	s.mu.RLock()
	p, ok := s.index[name]
	s.mu.RUnlock()

	return p, ok
}

func (s *Store) lookup(name string) (*Parameter, error) {
	p, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	return p, nil
}

// Len returns the number of declared parameters.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.params)
}

// Params returns the parameters in declaration order.
func (s *Store) Params() []*Parameter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Parameter, len(s.params))
	copy(out, s.params)

	return out
}

// Descriptors returns the declarations in declaration order.
func (s *Store) Descriptors() []Descriptor {
	params := s.Params()
	out := make([]Descriptor, len(params))

	for i, p := range params {
		out[i] = p.Descriptor()
	}

	return out
}

// Get returns the current real-world value of name.
func (s *Store) Get(name string) (float64, error) {
	p, err := s.lookup(name)
	if err != nil {
		return 0, err
	}

	return p.Value(), nil
}

// MustGet is like Get but panics on an unknown name.
func (s *Store) MustGet(name string) float64 {
	v, err := s.Get(name)
	if err != nil {
		panic(err)
	}

	return v
}

// Set clamps value to the declared range and stores it. Out-of-range values
// are not an error. NaN is rejected and leaves the value unchanged.
func (s *Store) Set(name string, value float64) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}

	if math.IsNaN(value) {
		return fmt.Errorf("%w: %q is NaN", ErrInvalidValue, name)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if p.store(value) {
		s.notify(p)
	}

	return nil
}

// MustSet is like Set but panics on error.
func (s *Store) MustSet(name string, value float64) {
	if err := s.Set(name, value); err != nil {
		panic(err)
	}
}

// Normalized returns the control position of name in [0, 1].
func (s *Store) Normalized(name string) (float64, error) {
	p, err := s.lookup(name)
	if err != nil {
		return 0, err
	}

	return p.Normalized(), nil
}

// SetNormalized maps a control position in [0, 1] through the parameter's
// skew, snaps it to the step grid and stores the result.
func (s *Store) SetNormalized(name string, position float64) error {
	p, err := s.lookup(name)
	if err != nil {
		return err
	}

	if math.IsNaN(position) {
		return fmt.Errorf("%w: %q position is NaN", ErrInvalidValue, name)
	}

	r := p.Range()
	v := r.Snap(r.Denormalize(position))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if p.store(v) {
		s.notify(p)
	}

	return nil
}

// Apply stores several values as one batch. Names that are not declared are
// ignored. If any value for a declared name is NaN nothing is stored.
func (s *Store) Apply(values map[string]float64) error {
	params := s.Params()

	for _, p := range params {
		v, ok := values[p.Name()]
		if ok && math.IsNaN(v) {
			return fmt.Errorf("%w: %q is NaN", ErrInvalidValue, p.Name())
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, p := range params {
		v, ok := values[p.Name()]
		if !ok {
			continue
		}

		if p.store(v) {
			s.notify(p)
		}
	}

	return nil
}

// Values returns the current value of every parameter keyed by name.
func (s *Store) Values() map[string]float64 {
	params := s.Params()
	out := make(map[string]float64, len(params))

	for _, p := range params {
		out[p.Name()] = p.Value()
	}

	return out
}

// Reset restores every parameter to its default.
func (s *Store) Reset() {
	params := s.Params()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, p := range params {
		if p.store(p.Default()) {
			s.notify(p)
		}
	}
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Calling the returned function more than once is harmless.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()

			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// notify must be called with writeMu held so listeners see changes in order.
func (s *Store) notify(p *Parameter) {
	s.subMu.Lock()
	if len(s.subs) == 0 {
		s.subMu.Unlock()
		return
	}

	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	name, value := p.Name(), p.Value()
	for _, sub := range subs {
		sub.fn(name, value)
	}
}
