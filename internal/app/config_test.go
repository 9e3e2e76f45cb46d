package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		errContains string
	}{
		{
			name: "minimal",
			cfg:  Config{ModulesPath: "modules"},
		},
		{
			name: "full",
			cfg: Config{
				ModulesPath:  "modules",
				DocumentPath: "app.hcl",
				LogFormat:    "json",
				LogLevel:     "debug",
				WorkerCount:  8,
				MaxDepth:     16,
				Metrics:      true,
			},
		},
		{
			name:        "missing modules path",
			cfg:         Config{DocumentPath: "app.hcl"},
			errContains: "ModulesPath is a required",
		},
		{
			name:        "bad log format",
			cfg:         Config{ModulesPath: "m", LogFormat: "xml"},
			errContains: "invalid log format",
		},
		{
			name:        "bad log level",
			cfg:         Config{ModulesPath: "m", LogLevel: "trace"},
			errContains: "invalid log level",
		},
		{
			name:        "negative workers",
			cfg:         Config{ModulesPath: "m", WorkerCount: -1},
			errContains: "invalid worker count",
		},
		{
			name:        "negative depth",
			cfg:         Config{ModulesPath: "m", MaxDepth: -2},
			errContains: "invalid max depth",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
