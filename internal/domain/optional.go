package domain

// Optional is a value that may be absent.
//
// It has value semantics: copying an Optional copies the wrapped value, so records built
// from it never share mutable state.
type Optional[T any] struct {
	set   bool
	value T
}

func Some[T any](v T) Optional[T] { return Optional[T]{set: true, value: v} }
func None[T any]() Optional[T]    { return Optional[T]{} }

// FromPtr converts a nil-able pointer (the persistence/transport shape) into an Optional.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func (o Optional[T]) IsSet() bool    { return o.set }
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }
func (o Optional[T]) OrZero() T      { return o.value }

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Optional[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
