package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examplePkg = "github.com/expunge-go/expunge/internal/analyze/testdata/example"

func loadExample(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages("./testdata/example")
	require.NoError(t, err)

	return graph
}

func TestLoadPackages_StructFields(t *testing.T) {
	graph := loadExample(t)

	creds := graph.GetType(TypeID{PkgPath: examplePkg, Name: "Credentials"})
	require.NotNil(t, creds)

	assert.Equal(t, KindStruct, creds.Kind)
	assert.True(t, creds.Annotated, "a tagged field marks the type annotated")
	assert.Empty(t, creds.Directives)
	require.Len(t, creds.Fields, 3)

	user := creds.Fields[0]
	assert.Equal(t, "User", user.Name)
	assert.False(t, user.HasTag)
	assert.Equal(t, KindBasic, user.Type.Kind)
	assert.Equal(t, BasicString, user.Type.Basic)

	password := creds.Fields[1]
	assert.True(t, password.HasTag)
	assert.Equal(t, "as='<redacted>'", password.TagValue)
	assert.True(t, password.TagPos.IsValid())

	history := creds.Fields[2]
	assert.True(t, history.HasTag)
	assert.Empty(t, history.TagValue, "bare marker")
	require.Equal(t, KindSlice, history.Type.Kind)
	require.NotNil(t, history.Type.Elem)
	assert.Equal(t, TypeID{PkgPath: examplePkg, Name: "Attempt"}, history.Type.Elem.ID)
	assert.Equal(t, KindStruct, history.Type.Elem.Kind)
}

func TestLoadPackages_ContainerDirective(t *testing.T) {
	graph := loadExample(t)

	session := graph.GetType(TypeID{PkgPath: examplePkg, Name: "Session"})
	require.NotNil(t, session)

	assert.True(t, session.Annotated)
	require.Len(t, session.Directives, 1)
	assert.Equal(t, "all,allow_debug", session.Directives[0].Text)
	assert.True(t, session.Directives[0].Pos.IsValid())

	require.Len(t, session.Fields, 2)
	assert.Equal(t, BasicNumber, session.Fields[1].Type.Basic)
}

func TestLoadPackages_SumVariants(t *testing.T) {
	graph := loadExample(t)

	event := graph.GetType(TypeID{PkgPath: examplePkg, Name: "Event"})
	require.NotNil(t, event)

	assert.Equal(t, KindSum, event.Kind)
	assert.False(t, event.IsUnion)
	assert.True(t, event.Annotated)

	assert.ElementsMatch(t, []TypeID{
		{PkgPath: examplePkg, Name: "Login"},
		{PkgPath: examplePkg, Name: "Ping"},
	}, event.Variants)
}

func TestLoadPackages_UnannotatedTypesStayInGraph(t *testing.T) {
	graph := loadExample(t)

	ping := graph.GetType(TypeID{PkgPath: examplePkg, Name: "Ping"})
	require.NotNil(t, ping)
	assert.False(t, ping.Annotated)
	assert.False(t, ping.HasExpunge)

	annotated := graph.Annotated()
	for _, ti := range annotated {
		assert.NotEqual(t, "Ping", ti.ID.Name)
	}
}

func TestLoadPackages_PackageInfo(t *testing.T) {
	graph := loadExample(t)

	info := graph.Packages[examplePkg]
	require.NotNil(t, info)

	assert.Equal(t, "example", info.Name)
	assert.NotEmpty(t, info.Dir)
	assert.Contains(t, info.Types, TypeID{PkgPath: examplePkg, Name: "Credentials"})
}
