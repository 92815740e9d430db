package analyze

import (
	"go/token"
	"reflect"
)

// TagKey is the struct tag key recognized on fields.
const TagKey = "expunge"

// DirectivePrefix marks container-level annotations in type doc comments.
const DirectivePrefix = "//expunge:"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "github.com/acme/billing"
	Name    string // e.g., "Customer"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Kind represents the structural kind of a type.
type Kind int

const (
	KindUnknown   Kind = iota
	KindBasic          // string, int, bool, etc.
	KindStruct         // named struct type
	KindSum            // sealed interface annotated as a sum type
	KindPointer        // pointer to another type
	KindSlice          // slice of another type
	KindMap            // map type
	KindTypeParam      // generic type parameter slot
	KindExternal       // opaque named type (e.g., time.Time)
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindStruct:
		return "struct"
	case KindSum:
		return "sum"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	case KindTypeParam:
		return "type parameter"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// BasicClass groups basic kinds by their zero literal.
type BasicClass int

const (
	BasicOther  BasicClass = iota
	BasicString            // zero literal ""
	BasicNumber            // zero literal 0
	BasicBool              // zero literal false
)

// Directive is one raw `//expunge:` comment line attached to a type.
type Directive struct {
	// Text is the option list after the prefix, e.g. `all,slog`.
	Text string
	// Pos is the position of the comment line.
	Pos token.Position
}

// TypeParamInfo describes one generic slot of an annotated type.
type TypeParamInfo struct {
	Name       string
	Constraint string // constraint type as written, e.g. "expunge.Expunger[T]"
	Pos        token.Position
}

// TypeInfo describes a type in the graph.
type TypeInfo struct {
	ID      TypeID
	Kind    Kind
	PkgName string // package name for types in the loaded packages

	// Basic holds the zero-literal class for KindBasic.
	Basic BasicClass
	// Elem is the element type for pointers and slices, and the value type
	// for maps.
	Elem *TypeInfo
	// Key is the key type for maps.
	Key *TypeInfo

	// Fields lists struct members in declaration order.
	Fields []FieldInfo
	// Variants lists the package-local variant types of a sum.
	Variants []TypeID
	// TypeParams lists generic slots declared on the type.
	TypeParams []TypeParamInfo

	// Directives are the raw //expunge: lines from the doc comment. More
	// than one is a validation error reported downstream.
	Directives []Directive

	// HasExpunge is true when the type already declares a conforming
	// Expunge method (hand-written or previously generated elsewhere).
	HasExpunge bool
	// Annotated is true when the type carries a directive or any of its
	// fields carries an expunge tag.
	Annotated bool
	// IsUnion is true for interface types whose type set is a term union
	// (e.g. `int | string`); these have no variants to dispatch over.
	IsUnion bool

	// Pos is the position of the type declaration.
	Pos token.Position
}

// IsNamed returns true if this type has a name.
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Directive returns the single directive, if exactly one is attached.
func (t *TypeInfo) Directive() (Directive, bool) {
	if len(t.Directives) == 1 {
		return t.Directives[0], true
	}

	return Directive{}, false
}

// FieldInfo describes one struct member.
type FieldInfo struct {
	Name     string
	Index    int // declaration index, the stable addressing order
	Exported bool
	Embedded bool

	// Type is the structural view of the field type.
	Type *TypeInfo
	// TypeExpr is the field type exactly as written in source, used verbatim
	// when synthesis needs to name the type (e.g. expunge.Zero[TypeExpr]()).
	TypeExpr string

	// Tag is the raw struct tag.
	Tag reflect.StructTag
	// HasTag is true when the expunge key is present in the tag, even with
	// an empty value (the bare marker).
	HasTag bool
	// TagValue is the raw value of the expunge tag key.
	TagValue string

	// Pos is the position of the field name; TagPos points at the tag when
	// one is present, for precise diagnostics.
	Pos    token.Position
	TagPos token.Position
}

// TypeGraph holds all analyzed types from the loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named package-local types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	order []TypeID
}

// NewTypeGraph creates an empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// Add inserts a named type preserving insertion order.
func (g *TypeGraph) Add(t *TypeInfo) {
	if _, ok := g.Types[t.ID]; !ok {
		g.order = append(g.order, t.ID)
	}

	g.Types[t.ID] = t
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Annotated returns all annotated types in deterministic declaration order.
func (g *TypeGraph) Annotated() []*TypeInfo {
	var out []*TypeInfo

	for _, id := range g.order {
		if t := g.Types[id]; t != nil && t.Annotated {
			out = append(out, t)
		}
	}

	return out
}

// All returns every named type in deterministic order.
func (g *TypeGraph) All() []*TypeInfo {
	out := make([]*TypeInfo, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.Types[id])
	}

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // import path
	Name  string   // package name
	Dir   string   // directory on disk, where generated files are written
	Types []TypeID // named types defined in this package
}
