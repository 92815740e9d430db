package resolve

import (
	"github.com/expunge-go/expunge/internal/analyze"
	"github.com/expunge-go/expunge/internal/diagnostic"
)

// ActionKind says what synthesis emits for one member.
type ActionKind int

const (
	// ActionKeep copies the member through untouched (no option set).
	ActionKeep ActionKind = iota
	// ActionSkip is an explicit ignore; also copied through untouched.
	ActionSkip
	// ActionLiteral assigns a literal expression (or the type's zero value).
	ActionLiteral
	// ActionCall assigns Fn(member).
	ActionCall
	// ActionRecurse assigns the member's own sanitized copy.
	ActionRecurse
)

// String returns a human-readable action name.
func (k ActionKind) String() string {
	switch k {
	case ActionKeep:
		return "keep"
	case ActionSkip:
		return "skip"
	case ActionLiteral:
		return "literal"
	case ActionCall:
		return "call"
	case ActionRecurse:
		return "recurse"
	default:
		return "unknown"
	}
}

// RecurseMode says how an ActionRecurse member composes.
type RecurseMode int

const (
	// RecurseDirect calls member.Expunge().
	RecurseDirect RecurseMode = iota
	// RecurseSlice maps Expunge over slice elements.
	RecurseSlice
	// RecurseMap maps Expunge over map values.
	RecurseMap
	// RecursePtr expunges the pointee into a fresh allocation.
	RecursePtr
	// RecurseSum dispatches through the sum type's generated function.
	RecurseSum
)

// Action is the lowered directive for one member.
type Action struct {
	Kind ActionKind

	// Expr is the literal replacement text for ActionLiteral. For string
	// members it is emitted as a quoted string literal; for anything else,
	// verbatim as a Go expression.
	Expr string
	// UseZero replaces the member with its type's zero value instead of Expr.
	UseZero bool

	// Fn is the replacement function for ActionCall.
	Fn string

	// Zeroize wipes the original value before installing the literal.
	// Only meaningful with ActionLiteral.
	Zeroize bool

	// Mode selects the recursion shape for ActionRecurse.
	Mode RecurseMode
	// SumFn names the dispatch function for RecurseSum.
	SumFn string
}

// MemberPlan pairs a member with its resolved action.
type MemberPlan struct {
	Field  analyze.FieldInfo
	Action Action
}

// VariantPlan is the per-variant member table of a sum type.
type VariantPlan struct {
	Type    *analyze.TypeInfo
	Members []MemberPlan
}

// TypePlan is everything synthesis needs for one annotated type.
type TypePlan struct {
	Type *analyze.TypeInfo

	// Members is the action table for struct types.
	Members []MemberPlan
	// Variants holds the plans of a sum type's variants.
	Variants []VariantPlan

	// Slog requests the sanitizing slog adapter.
	Slog bool
	// AllowDebug suppresses the generated redacting String method.
	AllowDebug bool
}

// Actioned reports whether any member does something beyond Keep.
func (p *TypePlan) Actioned() bool {
	for _, m := range p.Members {
		if m.Action.Kind != ActionKeep {
			return true
		}
	}

	for _, v := range p.Variants {
		for _, m := range v.Members {
			if m.Action.Kind != ActionKeep {
				return true
			}
		}
	}

	return false
}

// Plan is the final output of resolution, consumed by code generation.
type Plan struct {
	// Types lists fully resolved plans in declaration order. Types that
	// produced any error diagnostic are absent: generation is all-or-nothing
	// per type.
	Types []*TypePlan
	// Graph is kept for package lookup during generation.
	Graph *analyze.TypeGraph
	// Diagnostics collects everything reported during resolution.
	Diagnostics diagnostic.Diagnostics
}
