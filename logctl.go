package expunge

import "sync"

// Generated slog adapters sanitize values before they reach the logging sink.
// That default can be lifted for a scope (say, a debug session) without
// touching call sites, and pinned back on for good with ForceSanitized.
//
// The scope stack is process-wide and strictly LIFO: release guards with
// defer so the prior state is restored even on early exit. Go has no
// goroutine-local storage, so unlike a thread-local this state is shared by
// all goroutines; see DisableSanitizing for the contract.

var logctl struct {
	mu     sync.Mutex
	scopes []bool // true = sanitizing disabled for this scope
	forced bool   // write-once: sanitize no matter what
}

// Guard restores the logging-override state captured when it was created.
type Guard struct {
	released bool
}

// DisableSanitizing opens a scope in which generated slog adapters emit
// values unsanitized. Release the guard (with defer) to restore the previous
// state. Has no effect once ForceSanitized has been called.
func DisableSanitizing() *Guard {
	return pushScope(true)
}

// EnableSanitizing opens a scope that re-enables sanitization inside an
// outer disabled scope.
func EnableSanitizing() *Guard {
	return pushScope(false)
}

func pushScope(disabled bool) *Guard {
	logctl.mu.Lock()
	defer logctl.mu.Unlock()

	logctl.scopes = append(logctl.scopes, disabled)

	return &Guard{}
}

// Release closes the scope, restoring the state that was in effect before
// the guard was created. Releasing twice is a no-op.
func (g *Guard) Release() {
	if g == nil || g.released {
		return
	}

	g.released = true

	logctl.mu.Lock()
	defer logctl.mu.Unlock()

	if n := len(logctl.scopes); n > 0 {
		logctl.scopes = logctl.scopes[:n-1]
	}
}

// ForceSanitized permanently disables all scoped overrides: from this call
// on, generated slog adapters always sanitize. It cannot be undone and is
// consulted before the scope stack.
func ForceSanitized() {
	logctl.mu.Lock()
	defer logctl.mu.Unlock()

	logctl.forced = true
}

// SanitizingDisabled reports whether generated slog adapters should skip
// sanitization right now. Sanitization is on by default.
func SanitizingDisabled() bool {
	logctl.mu.Lock()
	defer logctl.mu.Unlock()

	if logctl.forced {
		return false
	}

	if n := len(logctl.scopes); n > 0 {
		return logctl.scopes[n-1]
	}

	return false
}
