package graph

// View wraps a readable node and exposes only Value, Peek and Subscribe,
// so a consumer handed the view cannot write or dispose the underlying node.
type View[T any] struct {
	inner Readable[T]
}

func ViewOf[T any](r Readable[T]) *View[T] {
	return &View[T]{inner: r}
}

func (v *View[T]) Value() T { return v.inner.Value() }
func (v *View[T]) Peek() T  { return v.inner.Peek() }

func (v *View[T]) Subscribe(cb func(newValue, oldValue T) error, opts ...WatchOption[T]) func() {
	return v.inner.Subscribe(cb, opts...)
}
