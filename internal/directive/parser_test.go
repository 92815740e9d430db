package directive

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expunge-go/expunge/internal/analyze"
)

func allFeatures() Features {
	return Features{Zeroize: true, Slog: true}
}

func fieldWithTag(value string) *analyze.FieldInfo {
	return &analyze.FieldInfo{
		Name:     "Field",
		HasTag:   true,
		TagValue: value,
		TagPos:   token.Position{Filename: "x.go", Line: 10, Column: 2},
	}
}

func typeWithDirectives(texts ...string) *analyze.TypeInfo {
	t := &analyze.TypeInfo{ID: analyze.TypeID{Name: "T"}, Kind: analyze.KindStruct}
	for i, text := range texts {
		t.Directives = append(t.Directives, analyze.Directive{
			Text: text,
			Pos:  token.Position{Filename: "x.go", Line: 1 + i, Column: 1},
		})
	}

	return t
}

func TestParseFieldNoTag(t *testing.T) {
	p := NewParser(allFeatures())

	opts, err := p.ParseField(&analyze.FieldInfo{Name: "Plain"})
	require.NoError(t, err)
	assert.Nil(t, opts, "untagged fields have no option set at all")
}

func TestParseFieldBareMarker(t *testing.T) {
	p := NewParser(allFeatures())

	opts, err := p.ParseField(fieldWithTag(""))
	require.NoError(t, err)
	require.NotNil(t, opts)
	assert.True(t, opts.Bare)
	assert.False(t, opts.HasReplacement())
}

func TestParseFieldOptions(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want Options
	}{
		{"literal", "as='<redacted>'", Options{As: "<redacted>"}},
		{"literal with commas", "as='Point{1, 2}'", Options{As: "Point{1, 2}"}},
		{"function", "with=expunge.SHA256Hex", Options{With: "expunge.SHA256Hex"}},
		{"ignore", "ignore", Options{Ignore: true}},
		{"default", "default", Options{Default: true}},
		{"zeroize with literal", "as='x',zeroize", Options{As: "x", Zeroize: true}},
		{"zeroize with default", "default,zeroize", Options{Default: true, Zeroize: true}},
		{"spaces tolerated", " ignore , default ", Options{Ignore: true, Default: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(allFeatures())

			opts, err := p.ParseField(fieldWithTag(tt.tag))
			require.NoError(t, err)
			require.NotNil(t, opts)

			tt.want.Pos = opts.Pos
			assert.Equal(t, tt.want, *opts)
		})
	}
}

func TestParseFieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		features Features
		code     string
		option   string
	}{
		{"as and with", "as='x',with=f", allFeatures(), "conflicting_options", "with"},
		{"with and as", "with=f,as='x'", allFeatures(), "conflicting_options", "as"},
		{"as and default", "as='x',default", allFeatures(), "conflicting_options", "default"},
		{"default and with", "default,with=f", allFeatures(), "conflicting_options", "with"},
		{"zeroize needs literal", "zeroize", allFeatures(), "zeroize_requires_as", "zeroize"},
		{"zeroize with function", "with=f,zeroize", allFeatures(), "conflicting_options", "zeroize"},
		{"zeroize feature off", "as='x',zeroize", Features{Slog: true}, "feature_disabled", "zeroize"},
		{"all on field", "all", allFeatures(), "misplaced_option", "all"},
		{"slog on field", "slog", allFeatures(), "misplaced_option", "slog"},
		{"allow_debug on field", "allow_debug", allFeatures(), "misplaced_option", "allow_debug"},
		{"unknown key", "scrub", allFeatures(), "unrecognized_option", "scrub"},
		{"as without value", "as", allFeatures(), "malformed_annotation", "as"},
		{"with without value", "with=", allFeatures(), "malformed_annotation", "with"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.features)

			_, err := p.ParseField(fieldWithTag(tt.tag))
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.code, perr.Code)
			assert.Equal(t, tt.option, perr.Option)
			assert.True(t, perr.Pos.IsValid(), "errors must carry the annotation position")
		})
	}
}

func TestParseContainer(t *testing.T) {
	p := NewParser(allFeatures())

	opts, err := p.ParseContainer(typeWithDirectives("all,slog,allow_debug"))
	require.NoError(t, err)
	require.NotNil(t, opts)
	assert.True(t, opts.All)
	assert.True(t, opts.Slog)
	assert.True(t, opts.AllowDebug)
}

func TestParseContainerNone(t *testing.T) {
	p := NewParser(allFeatures())

	opts, err := p.ParseContainer(typeWithDirectives())
	require.NoError(t, err)
	assert.Nil(t, opts)
}

func TestParseContainerErrors(t *testing.T) {
	tests := []struct {
		name       string
		directives []string
		features   Features
		code       string
	}{
		{"bare marker", []string{""}, allFeatures(), "bare_marker_on_container"},
		{"duplicate blocks", []string{"all", "slog"}, allFeatures(), "duplicate_annotation"},
		{"ignore misplaced", []string{"ignore"}, allFeatures(), "misplaced_option"},
		{"slog feature off", []string{"slog"}, Features{Zeroize: true}, "feature_disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.features)

			_, err := p.ParseContainer(typeWithDirectives(tt.directives...))
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.code, perr.Code)
		})
	}
}

func TestParseContainerInheritableDefaults(t *testing.T) {
	p := NewParser(allFeatures())

	opts, err := p.ParseContainer(typeWithDirectives("all,as='<redacted>',zeroize"))
	require.NoError(t, err)
	require.NotNil(t, opts)
	assert.True(t, opts.All)
	assert.Equal(t, "<redacted>", opts.As)
	assert.True(t, opts.Zeroize)
}

func TestParseVariant(t *testing.T) {
	p := NewParser(allFeatures())

	// A bare directive on a variant is the "container defaults" marker.
	opts, err := p.ParseVariant(typeWithDirectives(""))
	require.NoError(t, err)
	require.NotNil(t, opts)
	assert.True(t, opts.Bare)

	// Variants follow field placement rules.
	_, err = p.ParseVariant(typeWithDirectives("all"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "misplaced_option", perr.Code)
}
