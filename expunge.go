// Package expunge is the runtime half of the expunge toolchain. It defines
// the sanitization capability implemented by generated code, generic helpers
// that lift the capability over standard containers, the Expunged type guard,
// the secure-wipe primitive, and the controls that decide whether values are
// sanitized before structured logging.
//
// Generated Expunge methods are produced by the expungegen command (see
// cmd/expungegen) from `expunge` struct tags and `//expunge:` directives.
package expunge

// Expunger is the sanitization capability. A type implements it by returning
// a copy of itself with every sensitive member replaced. Generated code
// satisfies this interface with T as the receiver type itself.
type Expunger[T any] interface {
	// Expunge returns a sanitized copy. The receiver is not modified,
	// except that members marked zeroize have their original backing
	// memory wiped in place.
	Expunge() T
}

// Zero returns the zero value for T. Primitive leaves sanitize by resetting
// to their zero value; this is the helper generated code reaches for when a
// member is marked with the type-default option and no literal is available.
func Zero[T any]() T {
	var zero T
	return zero
}

// Apply expunges v through its own capability. It exists so callers can
// sanitize a generic value without naming the concrete type.
func Apply[T Expunger[T]](v T) T {
	return v.Expunge()
}
