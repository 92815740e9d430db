package gen

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expunge-go/expunge/internal/analyze"
	"github.com/expunge-go/expunge/internal/directive"
	"github.com/expunge-go/expunge/internal/resolve"
)

const testPkg = "example.com/app"

func strType() *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.KindBasic, Basic: analyze.BasicString}
}

func structType(name string, fields ...analyze.FieldInfo) *analyze.TypeInfo {
	t := &analyze.TypeInfo{
		ID:      analyze.TypeID{PkgPath: testPkg, Name: name},
		Kind:    analyze.KindStruct,
		PkgName: "app",
		Fields:  fields,
	}

	for i := range t.Fields {
		t.Fields[i].Index = i

		if t.Fields[i].HasTag {
			t.Annotated = true
		}
	}

	return t
}

func field(name, tag string, hasTag bool, typ *analyze.TypeInfo) analyze.FieldInfo {
	return analyze.FieldInfo{
		Name:     name,
		Exported: true,
		Type:     typ,
		TypeExpr: "string",
		HasTag:   hasTag,
		TagValue: tag,
	}
}

func generate(t *testing.T, types ...*analyze.TypeInfo) []GeneratedFile {
	t.Helper()

	graph := analyze.NewTypeGraph()
	for _, ti := range types {
		graph.Add(ti)
	}

	plan := resolve.NewResolver(graph, directive.Features{Zeroize: true, Slog: true}).Resolve()
	require.False(t, plan.Diagnostics.HasErrors(), "%v", plan.Diagnostics.Error())

	files, err := NewGenerator(DefaultConfig()).Generate(plan)
	require.NoError(t, err)

	return files
}

func TestGenerate_SimpleStruct(t *testing.T) {
	files := generate(t, structType("User",
		field("Password", "as='<redacted>'", true, strType()),
		field("Email", "with=hashEmail", true, strType()),
		field("ID", "", false, strType()),
	))

	require.Len(t, files, 1)

	assert.Equal(t, "expunge_gen.go", files[0].Filename)
	assert.Equal(t, testPkg, files[0].PkgPath)

	content := string(files[0].Content)

	assert.Contains(t, content, "package app")
	assert.Contains(t, content, "func (v User) Expunge() User {")
	assert.Contains(t, content, `out.Password = "<redacted>"`)
	assert.Contains(t, content, "out.Email = hashEmail(v.Email)")
	assert.Contains(t, content, "func (v User) String() string {")
	assert.NotContains(t, content, "out.ID", "untouched members get no assignment")
}

func TestGenerate_SimpleStructGolden(t *testing.T) {
	files := generate(t, structType("User",
		field("Password", "as='<redacted>'", true, strType()),
		field("Email", "with=hashEmail", true, strType()),
		field("ID", "", false, strType()),
	))

	require.Len(t, files, 1)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "simple_struct", files[0].Content)
}

func TestGenerate_AllowDebugSuppressesString(t *testing.T) {
	user := structType("User", field("Name", "", true, strType()))
	user.Directives = []analyze.Directive{{Text: "allow_debug"}}
	user.Annotated = true

	files := generate(t, user)
	require.Len(t, files, 1)

	assert.NotContains(t, string(files[0].Content), "func (v User) String()")
}

func TestGenerate_SlogAdapter(t *testing.T) {
	user := structType("User", field("Secret", "", true, strType()))
	user.Directives = []analyze.Directive{{Text: "slog"}}
	user.Annotated = true

	files := generate(t, user)
	require.Len(t, files, 1)

	content := string(files[0].Content)

	assert.Contains(t, content, `"log/slog"`)
	assert.Contains(t, content, "func (v User) LogValue() slog.Value {")
	assert.Contains(t, content, "slog.AnyValue(plain(v.Expunge()))")
}

func TestGenerate_ContainerHelpers(t *testing.T) {
	inner := structType("Secret", field("V", "default", true, strType()))
	ref := &analyze.TypeInfo{ID: inner.ID, Kind: analyze.KindStruct}

	vault := structType("Vault",
		analyze.FieldInfo{Name: "List", Exported: true, HasTag: true,
			Type: &analyze.TypeInfo{Kind: analyze.KindSlice, Elem: ref}, TypeExpr: "[]Secret"},
		analyze.FieldInfo{Name: "ByName", Exported: true, HasTag: true,
			Type: &analyze.TypeInfo{Kind: analyze.KindMap, Key: strType(), Elem: ref}, TypeExpr: "map[string]Secret"},
		analyze.FieldInfo{Name: "Main", Exported: true, HasTag: true,
			Type: &analyze.TypeInfo{Kind: analyze.KindPointer, Elem: ref}, TypeExpr: "*Secret"},
	)
	vault.Annotated = true

	files := generate(t, inner, vault)
	require.Len(t, files, 1)

	content := string(files[0].Content)

	assert.Contains(t, content, `"github.com/expunge-go/expunge"`)
	assert.Contains(t, content, "out.List = expunge.Slice(v.List)")
	assert.Contains(t, content, "out.ByName = expunge.Map(v.ByName)")
	assert.Contains(t, content, "out.Main = expunge.Ptr(v.Main)")
}

func TestGenerate_ZeroizeClearsBacking(t *testing.T) {
	card := structType("Card",
		analyze.FieldInfo{Name: "Number", Exported: true, HasTag: true,
			TagValue: "default,zeroize",
			Type:     &analyze.TypeInfo{Kind: analyze.KindSlice, Elem: &analyze.TypeInfo{Kind: analyze.KindBasic, Basic: analyze.BasicNumber}},
			TypeExpr: "[]byte"},
	)
	card.Annotated = true

	files := generate(t, card)
	require.Len(t, files, 1)

	content := string(files[0].Content)

	assert.Contains(t, content, "clear(out.Number)")
	assert.Contains(t, content, "out.Number = nil")
}

func TestGenerate_SumDispatch(t *testing.T) {
	login := structType("Login", field("Token", "as='<secret>'", true, strType()))
	ping := structType("Ping", field("Seq", "", false, strType()))
	ping.Annotated = true

	event := &analyze.TypeInfo{
		ID:         analyze.TypeID{PkgPath: testPkg, Name: "Event"},
		Kind:       analyze.KindSum,
		PkgName:    "app",
		Annotated:  true,
		Directives: []analyze.Directive{{Text: "allow_debug"}},
		Variants:   []analyze.TypeID{login.ID, ping.ID},
	}

	files := generate(t, event, login, ping)
	require.Len(t, files, 1)

	content := string(files[0].Content)

	assert.Contains(t, content, "func ExpungeEvent(v Event) Event {")
	assert.Contains(t, content, "case Login:")
	assert.Contains(t, content, "case Ping:")
	assert.Contains(t, content, "func (v Login) Expunge() Login {")
	assert.Contains(t, content, "func (v Ping) Expunge() Ping {")
	assert.NotContains(t, content, "String()", "allow_debug covers the variants too")
}

func TestGenerate_IdentityWhenNothingActioned(t *testing.T) {
	user := structType("User", field("Name", "", false, strType()))
	user.Directives = []analyze.Directive{{Text: "allow_debug"}}
	user.Annotated = true

	files := generate(t, user)
	require.Len(t, files, 1)

	assert.Contains(t, string(files[0].Content), "\treturn v\n}")
}
