// Package config loads generator settings from expungegen.yaml, the
// environment and command-line flags, in that order of increasing
// precedence.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "expungegen"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	// EnvPrefix is the prefix of environment variables read by the tool,
	// e.g. EXPUNGEGEN_FEATURES_ZEROIZE.
	EnvPrefix = "EXPUNGEGEN"

	PackagesKey       = "packages"
	OutputFilenameKey = "output.filename"
	FeatureZeroizeKey = "features.zeroize"
	FeatureSlogKey    = "features.slog"

	LogFilenameKey   = "log.filename"
	LogLevelKey      = "log.level"
	LogVerboseKey    = "log.verbose"
	LogMaxSizeKey    = "log.max_size"
	LogMaxBackupsKey = "log.max_backups"
	LogMaxAgeKey     = "log.max_age"
	LogCompressKey   = "log.compress"

	defaultOutputFilename = "expunge_gen.go"
	defaultFeatureZeroize = false
	defaultFeatureSlog    = false

	defaultLogFilename   = ".expungegen.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// Config is the typed snapshot of the effective settings.
type Config struct {
	Version int `yaml:"version"`

	// Packages are the package patterns handed to the loader,
	// e.g. ./... or ./internal/billing.
	Packages []string `yaml:"packages"`

	Output   Output   `yaml:"output"`
	Features Features `yaml:"features"`
	Log      Log      `yaml:"log"`
}

// Output controls where generated code lands.
type Output struct {
	// Filename is the base name of the generated file in each package.
	Filename string `yaml:"filename"`
}

// Features gates the annotation options that need opt-in support.
type Features struct {
	Zeroize bool `yaml:"zeroize"`
	Slog    bool `yaml:"slog"`
}

// Log configures the rotating log file.
type Log struct {
	Filename   string `yaml:"filename"`
	Level      string `yaml:"level"`
	Verbose    bool   `yaml:"verbose"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Init wires viper to the config file, environment and defaults. A
// missing config file is not an error; everything has a default.
func Init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(PackagesKey, []string{"./..."})
	viper.SetDefault(OutputFilenameKey, defaultOutputFilename)
	viper.SetDefault(FeatureZeroizeKey, defaultFeatureZeroize)
	viper.SetDefault(FeatureSlogKey, defaultFeatureSlog)

	viper.SetDefault(LogFilenameKey, defaultLogFilename)
	viper.SetDefault(LogLevelKey, defaultLogLevel)
	viper.SetDefault(LogVerboseKey, defaultLogVerbose)
	viper.SetDefault(LogMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(LogMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(LogMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(LogCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// FilePath returns the default config file location.
func FilePath() string {
	return filepath.Join(configFolderPath, configFileName)
}

// Marshal renders the configuration as YAML, the format expungegen init
// writes out.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Load reads the effective settings out of viper.
func Load() *Config {
	return &Config{
		Version:  viper.GetInt(configVersionKey),
		Packages: viper.GetStringSlice(PackagesKey),
		Output: Output{
			Filename: viper.GetString(OutputFilenameKey),
		},
		Features: Features{
			Zeroize: viper.GetBool(FeatureZeroizeKey),
			Slog:    viper.GetBool(FeatureSlogKey),
		},
		Log: Log{
			Filename:   viper.GetString(LogFilenameKey),
			Level:      viper.GetString(LogLevelKey),
			Verbose:    viper.GetBool(LogVerboseKey),
			MaxSize:    viper.GetInt(LogMaxSizeKey),
			MaxBackups: viper.GetInt(LogMaxBackupsKey),
			MaxAge:     viper.GetInt(LogMaxAgeKey),
			Compress:   viper.GetBool(LogCompressKey),
		},
	}
}
