package directive

import (
	"fmt"
	"go/token"
)

// Recognized option keys.
const (
	KeyAs         = "as"
	KeyWith       = "with"
	KeyDefault    = "default"
	KeyIgnore     = "ignore"
	KeyAll        = "all"
	KeyZeroize    = "zeroize"
	KeySlog       = "slog"
	KeyAllowDebug = "allow_debug"
)

// Node is the kind of annotated node, which decides option placement rules.
type Node int

const (
	NodeContainer Node = iota
	NodeField
	NodeVariant
)

// String returns the node kind as it appears in diagnostics.
func (n Node) String() string {
	switch n {
	case NodeContainer:
		return "container"
	case NodeField:
		return "field"
	case NodeVariant:
		return "variant"
	default:
		return "node"
	}
}

// Features gates the options that need runtime support compiled in.
type Features struct {
	Zeroize bool
	Slog    bool
}

// Options is the resolved bag of directives for one node. It is built fresh
// per node at parse time, merged with the parent during resolution, and
// consumed exactly once during synthesis.
type Options struct {
	// As is the literal replacement expression, mutually exclusive with With.
	As string
	// Default requests replacement with the member type's zero value.
	Default bool
	// With is the replacement function, called as With(member).
	With string
	// Ignore leaves the member untouched.
	Ignore bool
	// All treats every member of the container as annotated.
	All bool
	// Zeroize wipes the original value before installing the literal.
	Zeroize bool
	// Slog emits a slog.LogValuer that sanitizes before logging.
	Slog bool
	// AllowDebug suppresses the generated redacting String method.
	AllowDebug bool
	// Bare is set for a marker with no options: inherit container defaults.
	Bare bool

	// Pos is where the annotation appears.
	Pos token.Position
}

// HasReplacement reports whether the node names its own replacement.
func (o *Options) HasReplacement() bool {
	return o.As != "" || o.Default || o.With != ""
}

// Clone returns a copy, used when a container's options seed a member's.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}

	c := *o

	return &c
}

// ParseError is a typed annotation failure identifying the violated rule.
type ParseError struct {
	// Code is the diagnostic code, e.g. "conflicting_options".
	Code string
	// Option is the offending option key, when one is identifiable.
	Option string
	// Pos is the position of the annotation.
	Pos token.Position

	msg string
}

// Message returns the failure text without the position prefix.
func (e *ParseError) Message() string {
	return e.msg
}

// Error formats the failure with its source position.
func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.msg)
	}

	return e.msg
}

func errf(code, option string, pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{
		Code:   code,
		Option: option,
		Pos:    pos,
		msg:    fmt.Sprintf(format, args...),
	}
}
