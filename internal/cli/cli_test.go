package cli

import (
	"log/slog"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"

	"github.com/expunge-go/expunge/internal/analyze"
	"github.com/expunge-go/expunge/internal/resolve"
)

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{name: "empty uses default", value: "", want: slog.LevelWarn},
		{name: "debug", value: "debug", want: slog.LevelDebug},
		{name: "warn", value: "warn", want: slog.LevelWarn},
		{name: "warning alias", value: "Warning", want: slog.LevelWarn},
		{name: "error", value: "error", want: slog.LevelError},
		{name: "numeric", value: "-4", want: slog.LevelDebug},
		{name: "garbage uses default", value: "loud", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestRelevantChange(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{
			name: "source write",
			ev:   fsnotify.Event{Name: "billing/user.go", Op: fsnotify.Write},
			want: true,
		},
		{
			name: "chmod only",
			ev:   fsnotify.Event{Name: "billing/user.go", Op: fsnotify.Chmod},
			want: false,
		},
		{
			name: "non go file",
			ev:   fsnotify.Event{Name: "billing/notes.md", Op: fsnotify.Write},
			want: false,
		},
		{
			name: "own output",
			ev:   fsnotify.Event{Name: "billing/expunge_gen.go", Op: fsnotify.Create},
			want: false,
		},
		{
			name: "debug sidecar",
			ev:   fsnotify.Event{Name: "billing/expunge_gen.unformatted.go", Op: fsnotify.Write},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevantChange(tt.ev, "expunge_gen.go"))
		})
	}
}

func TestRenderPlanTable(t *testing.T) {
	plan := &resolve.Plan{
		Types: []*resolve.TypePlan{
			{
				Type: &analyze.TypeInfo{
					ID:   analyze.TypeID{PkgPath: "example.com/app", Name: "User"},
					Kind: analyze.KindStruct,
				},
				Slog: true,
				Members: []resolve.MemberPlan{
					{Action: resolve.Action{Kind: resolve.ActionLiteral}},
					{Action: resolve.Action{Kind: resolve.ActionKeep}},
				},
			},
		},
	}

	out := renderPlanTable(plan)

	assert.Contains(t, out, "example.com/app")
	assert.Contains(t, out, "User")
	assert.Contains(t, out, "struct")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "Total Types 1")
}
