package resolve

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/expunge-go/expunge/internal/analyze"
	"github.com/expunge-go/expunge/internal/directive"
)

// Resolver lowers parsed annotations into a generation plan.
type Resolver struct {
	graph  *analyze.TypeGraph
	parser *directive.Parser

	// variantOf maps a variant struct to its annotated sum, so variants are
	// resolved exactly once, under the sum's inherited context.
	variantOf map[analyze.TypeID]analyze.TypeID

	plan *Plan
}

// NewResolver creates a Resolver over the given graph and feature set.
func NewResolver(graph *analyze.TypeGraph, features directive.Features) *Resolver {
	return &Resolver{
		graph:  graph,
		parser: directive.NewParser(features),
	}
}

// Resolve produces the plan for every annotated type in the graph. Types
// with any error diagnostic are dropped from the plan entirely; the
// diagnostics tell why.
func (r *Resolver) Resolve() *Plan {
	r.plan = &Plan{Graph: r.graph}
	r.indexVariants()

	for _, t := range r.graph.All() {
		if _, isVariant := r.variantOf[t.ID]; isVariant {
			continue // resolved under its sum
		}

		if !t.Annotated {
			continue
		}

		errsBefore := len(r.plan.Diagnostics.Errors)

		var tp *TypePlan

		switch t.Kind {
		case analyze.KindStruct:
			tp = r.resolveStruct(t)
		case analyze.KindSum:
			tp = r.resolveSum(t)
		default:
			r.plan.Diagnostics.AddError("unsupported_shape",
				fmt.Sprintf("expunge cannot be derived for %s types", t.Kind),
				t.ID.Name, "", t.Pos)
		}

		// All-or-nothing per type: a single violation aborts its generation.
		if tp != nil && len(r.plan.Diagnostics.Errors) == errsBefore {
			r.plan.Types = append(r.plan.Types, tp)
		}
	}

	return r.plan
}

// indexVariants records which structs belong to an annotated sum.
func (r *Resolver) indexVariants() {
	r.variantOf = make(map[analyze.TypeID]analyze.TypeID)

	for _, t := range r.graph.All() {
		if t.Kind != analyze.KindSum || !t.Annotated {
			continue
		}

		for _, v := range t.Variants {
			r.variantOf[v] = t.ID
		}
	}
}

// resolveStruct builds the member action table for a record container.
func (r *Resolver) resolveStruct(t *analyze.TypeInfo) *TypePlan {
	parent, ok := r.parseContainer(t)
	if !ok {
		return nil
	}

	r.checkTypeParams(t)

	tp := &TypePlan{Type: t}
	if parent != nil {
		tp.Slog = parent.Slog
		tp.AllowDebug = parent.AllowDebug
	}

	tp.Members = r.resolveMembers(t, t, parent)

	return tp
}

// resolveSum builds per-variant action tables for a sealed interface.
func (r *Resolver) resolveSum(t *analyze.TypeInfo) *TypePlan {
	if t.IsUnion {
		r.plan.Diagnostics.AddError("unsupported_shape",
			"expunge cannot be derived for union interfaces", t.ID.Name, "", t.Pos)

		return nil
	}

	parent, ok := r.parseContainer(t)
	if !ok {
		return nil
	}

	tp := &TypePlan{Type: t}
	if parent != nil {
		tp.Slog = parent.Slog
		tp.AllowDebug = parent.AllowDebug
	}

	if len(t.Variants) == 0 {
		r.plan.Diagnostics.AddWarning("empty_sum",
			"sum type has no package-local variants implementing it", t.ID.Name, "", t.Pos)
	}

	for _, vid := range t.Variants {
		vt := r.graph.GetType(vid)
		if vt == nil {
			continue
		}

		vOpts, err := r.parser.ParseVariant(vt)
		if err != nil {
			r.addParseError(err, t.ID.Name, vt.ID.Name)
			continue
		}

		// Any marker on a variant scopes apply-to-all to that variant's own
		// members; without one the sum's own context flows through as-is.
		vParent := parent
		if vOpts != nil {
			vParent = mergeVariant(parent, vOpts)
		}

		r.checkTypeParams(vt)

		tp.Variants = append(tp.Variants, VariantPlan{
			Type:    vt,
			Members: r.resolveMembers(t, vt, vParent),
		})
	}

	return tp
}

// resolveMembers merges each member's own options with the container context
// and lowers them to actions. owner carries the diagnostic type name (the
// sum for variants), shape carries the fields.
func (r *Resolver) resolveMembers(owner, shape *analyze.TypeInfo, parent *directive.Options) []MemberPlan {
	members := make([]MemberPlan, 0, len(shape.Fields))

	for i := range shape.Fields {
		field := shape.Fields[i]

		own, err := r.parser.ParseField(&field)
		if err != nil {
			r.addParseError(err, owner.ID.Name, field.Name)
			continue
		}

		if own != nil && own.Bare && parent != nil && parent.All {
			r.plan.Diagnostics.AddInfo("redundant_marker",
				"bare marker is redundant under a container with `all`",
				owner.ID.Name, field.Name, own.Pos)
		}

		eff := merge(parent, own)
		if !r.recheckMember(owner, &field, eff) {
			continue
		}

		members = append(members, MemberPlan{
			Field:  field,
			Action: r.buildAction(owner, &field, eff),
		})
	}

	return members
}

// merge computes the effective directive for one member.
//
// Own replacement (as/with/default) wins; absent one, the container's is
// inherited. The ignore and zeroize flags are sticky and OR downward.
// Container-only concerns never survive into a member directive.
func merge(parent, own *directive.Options) *directive.Options {
	if own == nil {
		if parent == nil || !parent.All {
			return nil // untouched: the default "not sensitive" state
		}

		own = &directive.Options{Bare: true, Pos: parent.Pos}
	}

	eff := own.Clone()

	if parent != nil {
		if !own.HasReplacement() {
			eff.As = parent.As
			eff.Default = parent.Default
			eff.With = parent.With
		}

		eff.Ignore = own.Ignore || parent.Ignore
		eff.Zeroize = own.Zeroize || parent.Zeroize
	}

	eff.All = false
	eff.Slog = false
	eff.AllowDebug = false

	return eff
}

// mergeVariant computes the container context a marked variant hands down to
// its members. The variant's own replacement wins; absent one, the sum's is
// inherited. The ignore and zeroize flags OR downward, and apply-to-all
// turns on for the variant's members.
func mergeVariant(parent, own *directive.Options) *directive.Options {
	eff := own.Clone()

	if parent != nil {
		if !own.HasReplacement() {
			eff.As = parent.As
			eff.Default = parent.Default
			eff.With = parent.With
		}

		eff.Ignore = own.Ignore || parent.Ignore
		eff.Zeroize = own.Zeroize || parent.Zeroize
	}

	eff.All = true

	return eff
}

// recheckMember defensively re-validates invariants the parser already
// enforces; a violation reaching this layer still aborts the type.
func (r *Resolver) recheckMember(owner *analyze.TypeInfo, field *analyze.FieldInfo, eff *directive.Options) bool {
	if eff == nil {
		return true
	}

	if eff.As != "" && eff.With != "" {
		r.plan.Diagnostics.AddError("conflicting_options",
			"`as` and `with` cannot be combined", owner.ID.Name, field.Name, eff.Pos)

		return false
	}

	if eff.All || eff.Slog || eff.AllowDebug {
		r.plan.Diagnostics.AddError("misplaced_option",
			"container-only option reached a member directive", owner.ID.Name, field.Name, eff.Pos)

		return false
	}

	return true
}

// buildAction lowers the effective directive for one member.
func (r *Resolver) buildAction(owner *analyze.TypeInfo, field *analyze.FieldInfo, eff *directive.Options) Action {
	switch {
	case eff == nil:
		return Action{Kind: ActionKeep}

	case eff.Ignore:
		return Action{Kind: ActionSkip}

	case eff.As != "":
		return Action{Kind: ActionLiteral, Expr: eff.As, Zeroize: eff.Zeroize}

	case eff.Default:
		return Action{Kind: ActionLiteral, UseZero: true, Zeroize: eff.Zeroize}

	case eff.With != "":
		return Action{Kind: ActionCall, Fn: eff.With}

	default:
		return r.recurseAction(owner, field, eff)
	}
}

// recurseAction picks the recursion shape for a member with no explicit
// replacement: its type must know how to sanitize itself.
func (r *Resolver) recurseAction(owner *analyze.TypeInfo, field *analyze.FieldInfo, eff *directive.Options) Action {
	ft := field.Type

	switch ft.Kind {
	case analyze.KindBasic:
		// Primitive leaves sanitize to their zero value.
		return Action{Kind: ActionLiteral, UseZero: true, Zeroize: eff.Zeroize}

	case analyze.KindTypeParam:
		return Action{Kind: ActionRecurse, Mode: RecurseDirect}

	case analyze.KindStruct:
		if r.recursable(ft) {
			return Action{Kind: ActionRecurse, Mode: RecurseDirect}
		}

	case analyze.KindSlice:
		if r.recursable(ft.Elem) {
			return Action{Kind: ActionRecurse, Mode: RecurseSlice}
		}

		if ft.Elem != nil && ft.Elem.Kind == analyze.KindBasic {
			return Action{Kind: ActionLiteral, UseZero: true}
		}

	case analyze.KindMap:
		if r.recursable(ft.Elem) {
			return Action{Kind: ActionRecurse, Mode: RecurseMap}
		}

		if ft.Elem != nil && ft.Elem.Kind == analyze.KindBasic {
			return Action{Kind: ActionLiteral, UseZero: true}
		}

	case analyze.KindPointer:
		if r.recursable(ft.Elem) {
			return Action{Kind: ActionRecurse, Mode: RecursePtr}
		}

		if ft.Elem != nil && ft.Elem.Kind == analyze.KindBasic {
			return Action{Kind: ActionLiteral, UseZero: true}
		}

	case analyze.KindExternal:
		if sumFn, ok := r.sumDispatch(owner, ft); ok {
			return Action{Kind: ActionRecurse, Mode: RecurseSum, SumFn: sumFn}
		}

		if ft.HasExpunge {
			return Action{Kind: ActionRecurse, Mode: RecurseDirect}
		}
	}

	r.plan.Diagnostics.AddError("missing_capability",
		fmt.Sprintf("type %s of member %s cannot sanitize itself; mark the member with as/with/ignore or make the type an Expunger",
			field.TypeExpr, field.Name),
		owner.ID.Name, field.Name, fieldPos(field, eff))

	return Action{Kind: ActionKeep}
}

// recursable reports whether a member of type t composes through Expunge:
// it either already has the method or it will get one generated.
func (r *Resolver) recursable(t *analyze.TypeInfo) bool {
	if t == nil {
		return false
	}

	if t.HasExpunge {
		return true
	}

	if g := r.graph.GetType(t.ID); g != nil && g.Annotated && g.Kind == analyze.KindStruct {
		return true
	}

	return false
}

// sumDispatch resolves a member whose type is an annotated sum in the same
// package to its generated dispatch function.
func (r *Resolver) sumDispatch(owner *analyze.TypeInfo, ft *analyze.TypeInfo) (string, bool) {
	g := r.graph.GetType(ft.ID)
	if g == nil || g.Kind != analyze.KindSum || !g.Annotated {
		return "", false
	}

	if ft.ID.PkgPath != owner.ID.PkgPath {
		return "", false
	}

	return "Expunge" + ft.ID.Name, true
}

// checkTypeParams requires every generic slot of an annotated type to carry
// the sanitization capability bound, so generated code type-checks for any
// instantiation. Go cannot add bounds after the fact the way a macro can,
// so the declaration itself must carry them.
func (r *Resolver) checkTypeParams(t *analyze.TypeInfo) {
	for _, tp := range t.TypeParams {
		if containsExpunger(tp.Constraint) {
			continue
		}

		r.plan.Diagnostics.AddError("missing_capability_bound",
			fmt.Sprintf("type parameter %s must be constrained to expunge.Expunger[%s]", tp.Name, tp.Name),
			t.ID.Name, tp.Name, tp.Pos)
	}
}

// containsExpunger is a syntactic check for the Expunger bound.
func containsExpunger(constraint string) bool {
	return strings.Contains(constraint, "Expunger")
}

// parseContainer parses the type's own directive; false means abort.
func (r *Resolver) parseContainer(t *analyze.TypeInfo) (*directive.Options, bool) {
	opts, err := r.parser.ParseContainer(t)
	if err != nil {
		r.addParseError(err, t.ID.Name, "")
		return nil, false
	}

	return opts, true
}

// addParseError records a parser failure as a positioned diagnostic.
func (r *Resolver) addParseError(err error, typeName, member string) {
	var perr *directive.ParseError
	if errors.As(err, &perr) {
		r.plan.Diagnostics.AddError(perr.Code, perr.Message(), typeName, member, perr.Pos)
		return
	}

	r.plan.Diagnostics.AddError("malformed_annotation", err.Error(), typeName, member, token.Position{})
}

// fieldPos prefers the annotation position over the field position.
func fieldPos(field *analyze.FieldInfo, eff *directive.Options) token.Position {
	if eff != nil && eff.Pos.IsValid() {
		return eff.Pos
	}

	return field.Pos
}
