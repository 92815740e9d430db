package cli

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expunge-go/expunge/internal/config"
	"github.com/expunge-go/expunge/internal/resolve"
)

// debounceDelay batches rapid editor save bursts into one regeneration.
const debounceDelay = 250 * time.Millisecond

// watchAndRegenerate blocks, regenerating whenever a .go file in one of
// the planned package directories changes. It returns when the command
// context is cancelled or the watcher fails.
func watchAndRegenerate(cmd *cobra.Command, patterns []string, plan *resolve.Plan) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0

	for _, pkg := range plan.Graph.Packages {
		if pkg.Dir == "" {
			continue
		}

		if err := watcher.Add(pkg.Dir); err != nil {
			slog.Warn("cannot watch directory", "dir", pkg.Dir, "error", err)
			continue
		}

		watched++
	}

	cmd.Printf("watching %d directories for changes\n", watched)

	genName := viper.GetString(config.OutputFilenameKey)

	// The timer starts stopped; relevant events rewind it.
	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !relevantChange(ev, genName) {
				continue
			}

			slog.Debug("source change", "file", ev.Name, "op", ev.Op.String())
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			if _, err := runGenerate(cmd, patterns); err != nil {
				// Keep watching; broken intermediate states are normal
				// while editing.
				cmd.PrintErrln("regenerate: " + err.Error())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			return err
		}
	}
}

// relevantChange filters watcher noise: only .go source changes count,
// and the generator's own output never retriggers it.
func relevantChange(ev fsnotify.Event, genName string) bool {
	const ops = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	if ev.Op&ops == 0 {
		return false
	}

	base := filepath.Base(ev.Name)

	if !strings.HasSuffix(base, ".go") || base == genName {
		return false
	}

	return !strings.HasSuffix(base, ".unformatted.go")
}
