package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/expunge-go/expunge/internal/gen"
)

const checkLongDescription = `Regenerate in memory and compare against the files on disk. Exits
non-zero when any generated file is missing or stale, printing a unified
diff of what would change. Intended for CI.

` + packagePatternsHelp

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages...]",
		Short: "Verify generated code is up to date",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, packagesFromArgs(args))
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, patterns []string) error {
	plan, err := buildPlan(patterns)
	if err != nil {
		return err
	}

	printDiagnostics(cmd, &plan.Diagnostics)

	if plan.Diagnostics.HasErrors() {
		return errors.New("annotation errors; nothing to check")
	}

	files, err := gen.NewGenerator(generatorConfig()).Generate(plan)
	if err != nil {
		return err
	}

	stale := 0

	for _, f := range files {
		path := filepath.Join(f.Dir, f.Filename)

		existing, err := os.ReadFile(path)
		if err != nil {
			existing = nil // missing counts as stale with a full diff
		}

		if bytes.Equal(existing, f.Content) {
			continue
		}

		stale++

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(existing)),
			B:        difflib.SplitLines(string(f.Content)),
			FromFile: path,
			ToFile:   path + " (regenerated)",
			Context:  3,
		})
		if err != nil {
			return err
		}

		cmd.Print(diff)
	}

	if stale > 0 {
		return errors.New("generated code is out of date; run expungegen gen")
	}

	cmd.Println("generated code is up to date")

	return nil
}
