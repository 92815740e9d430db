package expunge

import "fmt"

// Expunged is a type guard: a value of type Expunged[T] can only be obtained
// by running T through its Expunge implementation, so holding one proves the
// payload has been sanitized. There is no constructor that skips the
// transformation and the inner field is unexported.
type Expunged[T Expunger[T]] struct {
	v T
}

// Seal consumes v, expunges it, and wraps the sanitized copy.
func Seal[T Expunger[T]](v T) Expunged[T] {
	return Expunged[T]{v: v.Expunge()}
}

// Get returns the sanitized payload for display or further use.
func (e Expunged[T]) Get() T {
	return e.v
}

// String formats the sanitized payload. Safe by construction.
func (e Expunged[T]) String() string {
	return fmt.Sprint(e.v)
}
