package cli

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/expunge-go/expunge/internal/gen"
	"github.com/expunge-go/expunge/internal/resolve"
)

const genLongDescription = `Generate sanitization code for every annotated type in the given
packages (default: the configured package patterns).

` + packagePatternsHelp

// watchFlag keeps the process alive and regenerates on source changes.
var watchFlag bool

// debugFlag dumps the resolved plan before generating.
var debugFlag bool

// genCmd represents the gen command.
var genCmd = newGenCmd()

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate sanitization code",
		Long:  genLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := packagesFromArgs(args)

			plan, err := runGenerate(cmd, patterns)
			if err != nil {
				return err
			}

			if watchFlag {
				return watchAndRegenerate(cmd, patterns, plan)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "regenerate whenever source files change")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "dump the resolved plan before generating")

	return cmd
}

func init() {
	rootCmd.AddCommand(genCmd)
}

// runGenerate runs the full pipeline once and writes the results.
func runGenerate(cmd *cobra.Command, patterns []string) (*resolve.Plan, error) {
	plan, err := buildPlan(patterns)
	if err != nil {
		return nil, err
	}

	printDiagnostics(cmd, &plan.Diagnostics)

	if debugFlag {
		cmd.Println(spew.Sdump(plan.Types))
	}

	if plan.Diagnostics.HasErrors() {
		return nil, errors.New("annotation errors; nothing generated")
	}

	files, err := gen.NewGenerator(generatorConfig()).Generate(plan)
	if err != nil {
		return nil, err
	}

	if err := gen.WriteFiles(files); err != nil {
		return nil, err
	}

	for _, f := range files {
		slog.Info("wrote generated file", "package", f.PkgPath, "file", f.Filename)
		cmd.Println("wrote " + filepath.Join(f.Dir, f.Filename))
	}

	if len(files) == 0 {
		cmd.Println("no annotated types found")
	}

	return plan, nil
}
