package countdown

// Previous remembers the value observed on the prior evaluation cycle so
// callers can detect edges (running -> stopped, 1 -> 0, ...).
//
// The zero value is ready to use and has no previous value. Not safe for
// concurrent use; owners serialize access.
type Previous[T comparable] struct {
	value T
	ok    bool
}

// Observe returns the value from the previous cycle, then records v for the
// next one. ok is false on the first cycle.
func (p *Previous[T]) Observe(v T) (prev T, ok bool) {
	prev, ok = p.value, p.ok
	p.value, p.ok = v, true
	return prev, ok
}

// Peek returns the remembered value without recording a new one.
func (p *Previous[T]) Peek() (T, bool) {
	return p.value, p.ok
}

// Changed reports whether v differs from the remembered value, recording v.
// The first observation always counts as a change.
func (p *Previous[T]) Changed(v T) bool {
	prev, ok := p.Observe(v)
	return !ok || prev != v
}

// Reset forgets the remembered value.
func (p *Previous[T]) Reset() {
	var zero T
	p.value, p.ok = zero, false
}
