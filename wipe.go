package expunge

// Wiper is implemented by types that can scrub their own backing memory.
// Generated code clears slice and map members in place when they are marked
// zeroize; hand-written Expunge implementations holding other resources can
// expose the same contract through this interface.
type Wiper interface {
	Wipe()
}

// Wipe overwrites every byte of b with zeros. The slice header is unchanged,
// so aliases of the same backing array observe the wipe too.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// WipeString drops the string referenced by s so its backing memory becomes
// unreachable before the replacement is installed. Go strings are immutable
// and may alias read-only program data, so the bytes cannot be overwritten
// in place; fields that must be scrubbed byte-for-byte should be []byte or
// implement Wiper.
func WipeString(s *string) {
	*s = ""
}
