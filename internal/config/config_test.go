package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	Init()

	cfg := Load()

	assert.Equal(t, []string{"./..."}, cfg.Packages)
	assert.Equal(t, "expunge_gen.go", cfg.Output.Filename)
	assert.False(t, cfg.Features.Zeroize)
	assert.False(t, cfg.Features.Slog)
	assert.Equal(t, ".expungegen.log", cfg.Log.Filename)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Log.MaxSize)
	assert.True(t, cfg.Log.Compress)
}

func TestEnvOverridesFeatures(t *testing.T) {
	viper.Reset()
	t.Setenv("EXPUNGEGEN_FEATURES_ZEROIZE", "true")
	t.Setenv("EXPUNGEGEN_OUTPUT_FILENAME", "sanitize_gen.go")
	Init()

	cfg := Load()

	assert.True(t, cfg.Features.Zeroize)
	assert.False(t, cfg.Features.Slog)
	assert.Equal(t, "sanitize_gen.go", cfg.Output.Filename)
}
