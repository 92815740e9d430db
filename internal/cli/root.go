// Package cli provides the expungegen command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/expunge-go/expunge/internal/config"
)

const (
	verboseFlagName = "verbose"
	logFileFlagName = "log-file"
	outputFlagName  = "output"
	zeroizeFlagName = "zeroize"
	slogFlagName    = "slog"
)

// verboseFlag switches logging to debug level.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

// outputFilenameFlag overrides the generated file name.
var outputFilenameFlag string

// zeroizeFeatureFlag enables the zeroize annotation option.
var zeroizeFeatureFlag bool

// slogFeatureFlag enables the slog annotation option.
var slogFeatureFlag bool

const packagePatternsHelp = `Package arguments use Go package patterns:
  - ./...          recursively scan the current module
  - ./internal/... recursively scan a subtree
  - ./billing      a single package`

const rootLongDescription = `Expungegen generates sanitization code for annotated Go types. Struct
fields carry expunge struct tags and container types carry //expunge:
directives; the generated Expunge methods return copies with the marked
members replaced, hashed or recursed into.

` + packagePatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expungegen",
		Short: "Sanitization code generator for Go types",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, viper.GetBool(config.LogVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func init() {
	config.Init()
	configureRootFlags(rootCmd)
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(
		&verboseFlag, verboseFlagName, "v",
		viper.GetBool(config.LogVerboseKey),
		"log at debug level",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), config.LogVerboseKey)

	cmd.PersistentFlags().StringVar(
		&logFileFlag, logFileFlagName,
		viper.GetString(config.LogFilenameKey),
		"log file location",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), config.LogFilenameKey)

	cmd.PersistentFlags().StringVarP(
		&outputFilenameFlag, outputFlagName, "o",
		viper.GetString(config.OutputFilenameKey),
		"base name of the generated file in each package",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), config.OutputFilenameKey)

	cmd.PersistentFlags().BoolVar(
		&zeroizeFeatureFlag, zeroizeFlagName,
		viper.GetBool(config.FeatureZeroizeKey),
		"enable the zeroize annotation option",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(zeroizeFlagName), config.FeatureZeroizeKey)

	cmd.PersistentFlags().BoolVar(
		&slogFeatureFlag, slogFlagName,
		viper.GetBool(config.FeatureSlogKey),
		"enable the slog annotation option",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(slogFlagName), config.FeatureSlogKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// packagesFromArgs falls back to the configured package patterns when the
// command line names none.
func packagesFromArgs(args []string) []string {
	if len(args) > 0 {
		return args
	}

	return viper.GetStringSlice(config.PackagesKey)
}
