package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds the type graph.
type Analyzer struct {
	graph     *TypeGraph
	fset      *token.FileSet
	typeCache map[types.Type]*TypeInfo

	// goTypes retains the go/types view of package-local named types so sum
	// variants can be discovered with types.Implements after all packages
	// are processed.
	goTypes map[TypeID]types.Type
	// sumIfaces maps annotated interface types to their interface view.
	sumIfaces map[TypeID]*types.Interface
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
		goTypes:   make(map[TypeID]types.Type),
		sumIfaces: make(map[TypeID]*types.Interface),
	}
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// LoadPackages loads the given package patterns and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./...", "./billing").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{Mode: LoadMode}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var errs []string

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %s", strings.Join(errs, "; "))
	}

	for _, pkg := range pkgs {
		a.fset = pkg.Fset
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("processing package %s: %w", pkg.PkgPath, err)
		}
	}

	a.discoverVariants()

	return a.graph, nil
}

// processPackage walks type declarations and extracts annotated shapes.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, s := range gd.Specs {
				spec, ok := s.(*ast.TypeSpec)
				if !ok {
					continue
				}

				info := a.processTypeSpec(pkg, gd, spec)
				if info == nil {
					continue
				}

				a.graph.Add(info)
				pkgInfo.Types = append(pkgInfo.Types, info.ID)
			}
		}
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	return nil
}

// processTypeSpec builds the TypeInfo for one type declaration.
func (a *Analyzer) processTypeSpec(pkg *packages.Package, gd *ast.GenDecl, spec *ast.TypeSpec) *TypeInfo {
	obj, ok := pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok {
		return nil
	}

	id := TypeID{PkgPath: pkg.PkgPath, Name: spec.Name.Name}

	doc := spec.Doc
	if doc == nil {
		doc = gd.Doc
	}

	info := &TypeInfo{
		ID:         id,
		PkgName:    pkg.Name,
		Directives: a.collectDirectives(doc),
		Pos:        a.fset.Position(spec.Name.Pos()),
	}

	a.goTypes[id] = obj.Type()
	info.HasExpunge = hasExpungeMethod(obj.Type())

	for _, tp := range typeParamFields(spec) {
		for _, name := range tp.Names {
			info.TypeParams = append(info.TypeParams, TypeParamInfo{
				Name:       name.Name,
				Constraint: types.ExprString(tp.Type),
				Pos:        a.fset.Position(name.Pos()),
			})
		}
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		info.Kind = KindStruct
		a.collectFields(pkg, t, info)

	case *ast.InterfaceType:
		info.Kind = KindSum
		info.IsUnion = interfaceIsUnion(t)

		if iface, ok := obj.Type().Underlying().(*types.Interface); ok {
			a.sumIfaces[id] = iface
		}

	default:
		// Named basic, alias, etc. Kept in the graph so directives on them
		// can be rejected with a precise shape diagnostic.
		info.Kind = classifyKind(obj.Type().Underlying())
	}

	info.Annotated = len(info.Directives) > 0 || anyFieldTagged(info.Fields)

	return info
}

// collectFields extracts struct members in declaration order.
func (a *Analyzer) collectFields(pkg *packages.Package, st *ast.StructType, info *TypeInfo) {
	index := 0

	for _, field := range st.Fields.List {
		typeExpr := types.ExprString(field.Type)
		fieldType := a.classify(pkg.TypesInfo.TypeOf(field.Type))

		var (
			tag      reflect.StructTag
			tagVal   string
			hasTag   bool
			tagPos   token.Position
			fieldTag = field.Tag
		)

		if fieldTag != nil {
			tag = reflect.StructTag(strings.Trim(fieldTag.Value, "`"))
			tagVal, hasTag = tag.Lookup(TagKey)
			tagPos = a.fset.Position(fieldTag.Pos())
		}

		names := field.Names
		if len(names) == 0 {
			// Embedded field: address it by its bare type name.
			fi := FieldInfo{
				Name:     embeddedName(field.Type),
				Index:    index,
				Embedded: true,
				Type:     fieldType,
				TypeExpr: typeExpr,
				Tag:      tag,
				HasTag:   hasTag,
				TagValue: tagVal,
				Pos:      a.fset.Position(field.Pos()),
				TagPos:   tagPos,
			}
			fi.Exported = ast.IsExported(fi.Name)
			info.Fields = append(info.Fields, fi)
			index++

			continue
		}

		for _, name := range names {
			pos := a.fset.Position(name.Pos())

			effectiveTagPos := tagPos
			if !effectiveTagPos.IsValid() {
				effectiveTagPos = pos
			}

			info.Fields = append(info.Fields, FieldInfo{
				Name:     name.Name,
				Index:    index,
				Exported: ast.IsExported(name.Name),
				Type:     fieldType,
				TypeExpr: typeExpr,
				Tag:      tag,
				HasTag:   hasTag,
				TagValue: tagVal,
				Pos:      pos,
				TagPos:   effectiveTagPos,
			})
			index++
		}
	}
}

// classify recursively converts a go/types.Type into a structural TypeInfo.
// Named types referenced from fields become reference shells carrying their
// TypeID; full shapes live in the graph entry built from the declaration.
func (a *Analyzer) classify(t types.Type) *TypeInfo {
	if t == nil {
		return &TypeInfo{Kind: KindUnknown}
	}

	t = types.Unalias(t)

	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{}
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Basic:
		info.Kind = KindBasic
		info.Basic = basicClass(tt)

	case *types.Pointer:
		info.Kind = KindPointer
		info.Elem = a.classify(tt.Elem())

	case *types.Slice:
		info.Kind = KindSlice
		info.Elem = a.classify(tt.Elem())

	case *types.Map:
		info.Kind = KindMap
		info.Key = a.classify(tt.Key())
		info.Elem = a.classify(tt.Elem())

	case *types.TypeParam:
		info.Kind = KindTypeParam
		info.ID = TypeID{Name: tt.Obj().Name()}

	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() != nil {
			info.ID = TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
		} else {
			info.ID = TypeID{Name: obj.Name()}
		}

		info.Kind = classifyKind(tt.Underlying())
		info.HasExpunge = hasExpungeMethod(tt)

	default:
		info.Kind = KindExternal
	}

	return info
}

// classifyKind maps an underlying type to a coarse kind for named types.
func classifyKind(under types.Type) Kind {
	switch under.(type) {
	case *types.Struct:
		return KindStruct
	case *types.Interface:
		return KindExternal // only annotated interfaces become sums
	case *types.Basic:
		return KindBasic
	default:
		return KindExternal
	}
}

// basicClass maps go/types basic info to a zero-literal class.
func basicClass(b *types.Basic) BasicClass {
	switch {
	case b.Info()&types.IsString != 0:
		return BasicString
	case b.Info()&types.IsNumeric != 0:
		return BasicNumber
	case b.Info()&types.IsBoolean != 0:
		return BasicBool
	default:
		return BasicOther
	}
}

// hasExpungeMethod reports whether t declares Expunge() T with T identical
// to the receiver type, i.e. it already satisfies the capability.
func hasExpungeMethod(t types.Type) bool {
	ms := types.NewMethodSet(t)

	for i := range ms.Len() {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != "Expunge" {
			continue
		}

		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}

		return types.Identical(sig.Results().At(0).Type(), t)
	}

	return false
}

// discoverVariants fills Variants for every sum type with the package-local
// struct types implementing its sealed interface.
func (a *Analyzer) discoverVariants() {
	for sumID, iface := range a.sumIfaces {
		sum := a.graph.GetType(sumID)
		if sum == nil {
			continue
		}

		pkgInfo := a.graph.Packages[sumID.PkgPath]
		if pkgInfo == nil {
			continue
		}

		for _, id := range pkgInfo.Types {
			if id == sumID {
				continue
			}

			candidate := a.graph.GetType(id)
			if candidate == nil || candidate.Kind != KindStruct {
				continue
			}

			gt, ok := a.goTypes[id]
			if !ok {
				continue
			}

			if types.Implements(gt, iface) || types.Implements(types.NewPointer(gt), iface) {
				sum.Variants = append(sum.Variants, id)
			}
		}
	}
}

// collectDirectives extracts raw //expunge: lines from a doc comment.
func (a *Analyzer) collectDirectives(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var out []Directive

	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, DirectivePrefix) {
			continue
		}

		out = append(out, Directive{
			Text: strings.TrimSpace(strings.TrimPrefix(c.Text, DirectivePrefix)),
			Pos:  a.fset.Position(c.Pos()),
		})
	}

	return out
}

// typeParamFields returns the type parameter list, or nil.
func typeParamFields(spec *ast.TypeSpec) []*ast.Field {
	if spec.TypeParams == nil {
		return nil
	}

	return spec.TypeParams.List
}

// interfaceIsUnion reports whether the interface embeds a term union, the
// one interface shape with no variants to dispatch over.
func interfaceIsUnion(t *ast.InterfaceType) bool {
	for _, m := range t.Methods.List {
		if len(m.Names) > 0 {
			continue
		}

		if _, ok := m.Type.(*ast.BinaryExpr); ok {
			return true
		}
	}

	return false
}

// embeddedName derives the field name of an embedded type expression.
func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	default:
		return types.ExprString(expr)
	}
}

// anyFieldTagged reports whether any member carries the expunge tag key.
func anyFieldTagged(fields []FieldInfo) bool {
	for i := range fields {
		if fields[i].HasTag {
			return true
		}
	}

	return false
}
