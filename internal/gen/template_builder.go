package gen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/expunge-go/expunge/internal/analyze"
	"github.com/expunge-go/expunge/internal/resolve"
)

// fileData holds all data needed for the file template.
type fileData struct {
	Header      string
	PackageName string
	Imports     []importLine
	Decls       []string
}

// importLine is one rendered line of the import block. A Blank line
// separates the standard library group from the rest.
type importLine struct {
	Path  string
	Blank bool
}

// fileBuilder accumulates declarations and the imports they need.
type fileBuilder struct {
	imports map[string]struct{}
	decls   []string
}

func newFileBuilder() *fileBuilder {
	return &fileBuilder{imports: make(map[string]struct{})}
}

func (b *fileBuilder) addImport(path string) {
	b.imports[path] = struct{}{}
}

// importLines returns the import block lines: standard library first,
// then a blank separator, then everything else, each group sorted.
func (b *fileBuilder) importLines() []importLine {
	var std, rest []string

	for path := range b.imports {
		first, _, _ := strings.Cut(path, "/")
		if strings.Contains(first, ".") {
			rest = append(rest, path)
		} else {
			std = append(std, path)
		}
	}

	sort.Strings(std)
	sort.Strings(rest)

	var lines []importLine

	for _, path := range std {
		lines = append(lines, importLine{Path: path})
	}

	if len(std) > 0 && len(rest) > 0 {
		lines = append(lines, importLine{Blank: true})
	}

	for _, path := range rest {
		lines = append(lines, importLine{Path: path})
	}

	return lines
}

// structDecls emits the method set for one struct plan.
func (b *fileBuilder) structDecls(tp *resolve.TypePlan) {
	b.expungeMethod(tp.Type, tp.Members)

	if !tp.AllowDebug {
		b.stringMethod(tp.Type)
	}

	if tp.Slog {
		b.logValueMethod(tp.Type)
	}
}

// sumDecls emits the dispatch function for a sum plan, then the method
// set of every variant.
func (b *fileBuilder) sumDecls(tp *resolve.TypePlan) {
	b.dispatchFunc(tp)

	for i := range tp.Variants {
		v := &tp.Variants[i]

		b.expungeMethod(v.Type, v.Members)

		if !tp.AllowDebug {
			b.stringMethod(v.Type)
		}

		if tp.Slog {
			b.logValueMethod(v.Type)
		}
	}
}

// expungeMethod emits the Expunge method for one type.
func (b *fileBuilder) expungeMethod(t *analyze.TypeInfo, members []resolve.MemberPlan) {
	recv := receiverType(t)

	var stmts []string

	for i := range members {
		stmts = append(stmts, b.memberStmts(&members[i])...)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "// Expunge returns a copy of %s with its sensitive members sanitized.\n", t.ID.Name)
	fmt.Fprintf(&sb, "func (v %s) Expunge() %s {\n", recv, recv)

	if len(stmts) == 0 {
		sb.WriteString("\treturn v\n}")
		b.decls = append(b.decls, sb.String())

		return
	}

	sb.WriteString("\tout := v\n")

	for _, stmt := range stmts {
		sb.WriteString("\t" + stmt + "\n")
	}

	sb.WriteString("\n\treturn out\n}")
	b.decls = append(b.decls, sb.String())
}

// memberStmts lowers one member's action to assignment statements.
func (b *fileBuilder) memberStmts(m *resolve.MemberPlan) []string {
	f := &m.Field
	a := m.Action

	switch a.Kind {
	case resolve.ActionKeep, resolve.ActionSkip:
		// out := v already copied the member.
		return nil

	case resolve.ActionLiteral:
		var stmts []string

		if a.Zeroize && clearable(f.Type) {
			stmts = append(stmts, fmt.Sprintf("clear(out.%s)", f.Name))
		}

		return append(stmts, fmt.Sprintf("out.%s = %s", f.Name, b.literalExpr(f, a)))

	case resolve.ActionCall:
		return []string{fmt.Sprintf("out.%s = %s(v.%s)", f.Name, a.Fn, f.Name)}

	case resolve.ActionRecurse:
		return []string{fmt.Sprintf("out.%s = %s", f.Name, b.recurseExpr(f, a))}

	default:
		return nil
	}
}

// literalExpr renders the replacement expression for a literal action.
// String members get their replacement quoted; everything else is taken
// verbatim as a Go expression.
func (b *fileBuilder) literalExpr(f *analyze.FieldInfo, a resolve.Action) string {
	if a.UseZero {
		return b.zeroLiteral(f)
	}

	if f.Type != nil && f.Type.Kind == analyze.KindBasic && f.Type.Basic == analyze.BasicString {
		return strconv.Quote(a.Expr)
	}

	return a.Expr
}

// zeroLiteral renders the zero value of a member's type.
func (b *fileBuilder) zeroLiteral(f *analyze.FieldInfo) string {
	t := f.Type

	if t != nil {
		switch t.Kind {
		case analyze.KindBasic:
			switch t.Basic {
			case analyze.BasicString:
				return `""`
			case analyze.BasicNumber:
				return "0"
			case analyze.BasicBool:
				return "false"
			}

		case analyze.KindSlice, analyze.KindMap, analyze.KindPointer:
			return "nil"

		case analyze.KindStruct:
			return f.TypeExpr + "{}"
		}
	}

	b.addImport(RuntimePkg)

	return fmt.Sprintf("expunge.Zero[%s]()", f.TypeExpr)
}

// recurseExpr renders the recursion expression for one member.
func (b *fileBuilder) recurseExpr(f *analyze.FieldInfo, a resolve.Action) string {
	switch a.Mode {
	case resolve.RecurseSlice:
		b.addImport(RuntimePkg)
		return fmt.Sprintf("expunge.Slice(v.%s)", f.Name)

	case resolve.RecurseMap:
		b.addImport(RuntimePkg)
		return fmt.Sprintf("expunge.Map(v.%s)", f.Name)

	case resolve.RecursePtr:
		b.addImport(RuntimePkg)
		return fmt.Sprintf("expunge.Ptr(v.%s)", f.Name)

	case resolve.RecurseSum:
		return fmt.Sprintf("%s(v.%s)", a.SumFn, f.Name)

	default:
		return fmt.Sprintf("v.%s.Expunge()", f.Name)
	}
}

// dispatchFunc emits the per-sum dispatch function that sanitizes a
// value while preserving its concrete variant.
func (b *fileBuilder) dispatchFunc(tp *resolve.TypePlan) {
	name := tp.Type.ID.Name

	var sb strings.Builder

	fmt.Fprintf(&sb, "// Expunge%s sanitizes v while preserving its concrete variant.\n", name)
	fmt.Fprintf(&sb, "func Expunge%s(v %s) %s {\n", name, name, name)
	sb.WriteString("\tswitch t := v.(type) {\n")

	for i := range tp.Variants {
		fmt.Fprintf(&sb, "\tcase %s:\n\t\treturn t.Expunge()\n", tp.Variants[i].Type.ID.Name)
	}

	sb.WriteString("\tdefault:\n\t\treturn v\n\t}\n}")
	b.decls = append(b.decls, sb.String())
}

// stringMethod emits the redacting String method. Conversion through a
// local type strips the method set, so printing cannot recurse.
func (b *fileBuilder) stringMethod(t *analyze.TypeInfo) {
	if len(t.TypeParams) > 0 {
		// Local types cannot reference type parameters.
		return
	}

	b.addImport("fmt")
	b.addImport(RuntimePkg)

	name := t.ID.Name

	var sb strings.Builder

	fmt.Fprintf(&sb, "// String renders %s through Expunge so sensitive members never\n", name)
	sb.WriteString("// reach logs or error messages by accident.\n")
	fmt.Fprintf(&sb, "func (v %s) String() string {\n", name)
	fmt.Fprintf(&sb, "\ttype plain %s\n\n", name)
	sb.WriteString("\tif expunge.SanitizingDisabled() {\n")
	sb.WriteString("\t\treturn fmt.Sprintf(\"%+v\", plain(v))\n")
	sb.WriteString("\t}\n\n")
	sb.WriteString("\treturn fmt.Sprintf(\"%+v\", plain(v.Expunge()))\n}")
	b.decls = append(b.decls, sb.String())
}

// logValueMethod emits the slog adapter that logs the sanitized copy.
func (b *fileBuilder) logValueMethod(t *analyze.TypeInfo) {
	if len(t.TypeParams) > 0 {
		return
	}

	b.addImport("log/slog")
	b.addImport(RuntimePkg)

	name := t.ID.Name

	var sb strings.Builder

	fmt.Fprintf(&sb, "// LogValue logs the sanitized form of %s.\n", name)
	fmt.Fprintf(&sb, "func (v %s) LogValue() slog.Value {\n", name)
	fmt.Fprintf(&sb, "\ttype plain %s\n\n", name)
	sb.WriteString("\tif expunge.SanitizingDisabled() {\n")
	sb.WriteString("\t\treturn slog.AnyValue(plain(v))\n")
	sb.WriteString("\t}\n\n")
	sb.WriteString("\treturn slog.AnyValue(plain(v.Expunge()))\n}")
	b.decls = append(b.decls, sb.String())
}

// receiverType renders the receiver type, with type parameters when the
// type is generic.
func receiverType(t *analyze.TypeInfo) string {
	if len(t.TypeParams) == 0 {
		return t.ID.Name
	}

	names := make([]string, len(t.TypeParams))
	for i, tp := range t.TypeParams {
		names[i] = tp.Name
	}

	return t.ID.Name + "[" + strings.Join(names, ", ") + "]"
}

// clearable reports whether the clear builtin applies to the member.
func clearable(t *analyze.TypeInfo) bool {
	if t == nil {
		return false
	}

	return t.Kind == analyze.KindSlice || t.Kind == analyze.KindMap
}
