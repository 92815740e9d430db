package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expunge-go/expunge/internal/analyze"
	"github.com/expunge-go/expunge/internal/config"
	"github.com/expunge-go/expunge/internal/diagnostic"
	"github.com/expunge-go/expunge/internal/directive"
	"github.com/expunge-go/expunge/internal/gen"
	"github.com/expunge-go/expunge/internal/resolve"
)

// buildPlan loads the given package patterns and resolves every annotated
// type into a generation plan. Diagnostics ride along on the plan; a
// non-nil error means loading itself failed.
func buildPlan(patterns []string) (*resolve.Plan, error) {
	slog.Debug("loading packages", "patterns", patterns)

	graph, err := analyze.NewAnalyzer().LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	features := directive.Features{
		Zeroize: viper.GetBool(config.FeatureZeroizeKey),
		Slog:    viper.GetBool(config.FeatureSlogKey),
	}

	plan := resolve.NewResolver(graph, features).Resolve()

	slog.Debug("resolved plan",
		"types", len(plan.Types),
		"errors", len(plan.Diagnostics.Errors),
		"warnings", len(plan.Diagnostics.Warnings))

	return plan, nil
}

// printDiagnostics surfaces warnings and errors on stderr; infos go only
// to the log file.
func printDiagnostics(cmd *cobra.Command, d *diagnostic.Diagnostics) {
	for _, info := range d.Infos {
		slog.Info("annotation note", "detail", info.String())
	}

	for _, warning := range d.Warnings {
		cmd.PrintErrln("warning: " + warning.String())
	}

	for _, e := range d.Errors {
		cmd.PrintErrln("error: " + e.String())
	}
}

// generatorConfig builds the generator settings from the effective config.
func generatorConfig() gen.Config {
	return gen.Config{
		Filename: viper.GetString(config.OutputFilenameKey),
	}
}
