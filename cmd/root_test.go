package cmd

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MazeXD/cuwo/config"
)

func TestGetFilterExpression(t *testing.T) {
	cfg = &config.Config{
		Filter: config.FilterConfig{
			DefaultExpression: "Level > 1",
			Presets: map[string]config.PresetFilter{
				"veterans": {Expression: "Level >= 50"},
			},
		},
	}
	t.Cleanup(func() {
		cfg = nil
		filterExpr = ""
		preset = ""
	})

	tests := []struct {
		name     string
		flag     string
		preset   string
		expected string
		wantErr  string
	}{
		{name: "flag wins", flag: "Name == \"Amy\"", preset: "veterans", expected: "Name == \"Amy\""},
		{name: "preset", preset: "veterans", expected: "Level >= 50"},
		{name: "unknown preset", preset: "nope", wantErr: "preset 'nope' not found in config"},
		{name: "default", expected: "Level > 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filterExpr = tt.flag
			preset = tt.preset

			expr, err := getFilterExpression()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, expr)
		})
	}

	cfg.Filter.DefaultExpression = ""
	filterExpr, preset = "", ""
	_, err := getFilterExpression()
	assert.EqualError(t, err, "no filter expression specified")
}

func TestSetupLogger(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	setupLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	setupLogger(config.LoggingConfig{Level: "unknown", Format: "console"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
