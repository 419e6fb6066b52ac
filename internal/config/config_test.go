package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
dataset: data/dataset.yaml
platform: pc
top_k: 5
workers: 8
time_budget: 1500ms
verbose: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "data/dataset.yaml", cfg.Dataset)
	assert.Equal(t, "pc", cfg.Platform)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 1500*time.Millisecond, cfg.TimeBudget)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"top_k": 3, "max_steps": 1000, "log_level": "debug"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 1000, cfg.MaxSteps)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "empty path",
			path:    func(*testing.T) string { return "" },
			wantErr: "config path is empty",
		},
		{
			name:    "missing file",
			path:    func(*testing.T) string { return "/nonexistent/path/config.yaml" },
			wantErr: "failed to read config file",
		},
		{
			name:    "malformed",
			path:    func(t *testing.T) string { return writeFile(t, "c.yaml", "top_k: [1, 2") },
			wantErr: "failed to parse config",
		},
		{
			name:    "unknown field",
			path:    func(t *testing.T) string { return writeFile(t, "c.yaml", "top_kk: 3\n") },
			wantErr: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RELIC_PLANNER_DATASET":     "/tmp/ds.yaml",
		"RELIC_PLANNER_TOP_K":       "7",
		"RELIC_PLANNER_MAX_STEPS":   "500",
		"RELIC_PLANNER_TIME_BUDGET": "3s",
		"RELIC_PLANNER_VERBOSE":     "true",
		"RELIC_PLANNER_PLATFORM":    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Config{Platform: "console", TopK: 1}
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "/tmp/ds.yaml", cfg.Dataset)
	assert.Equal(t, 7, cfg.TopK)
	assert.Equal(t, 500, cfg.MaxSteps)
	assert.Equal(t, 3*time.Second, cfg.TimeBudget)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "console", cfg.Platform, "empty variables are ignored")
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"RELIC_PLANNER_WORKERS":     "many",
		"RELIC_PLANNER_TIME_BUDGET": "soon",
		"RELIC_PLANNER_VERBOSE":     "perhaps",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := Config{}
			err := cfg.ApplyEnv(func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			})
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestValidate(t *testing.T) {
	dataset := writeFile(t, "dataset.yaml", "version: x\n")

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults without dataset", cfg: Config{Platform: "auto", TopK: 10}},
		{name: "existing dataset", cfg: Config{Dataset: dataset}},
		{name: "bad platform", cfg: Config{Platform: "switch"}, wantErr: "Platform"},
		{name: "negative top_k", cfg: Config{TopK: -1}, wantErr: "TopK"},
		{name: "bad log level", cfg: Config{LogLevel: "loud"}, wantErr: "LogLevel"},
		{name: "per-slot above total", cfg: Config{MaxCandidatesTotal: 10, MaxCandidatesPerSlot: 20}, wantErr: "max_candidates_per_slot"},
		{name: "missing dataset", cfg: Config{Dataset: "/nonexistent/ds.yaml"}, wantErr: "dataset file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{TopK: 3, Platform: "pc"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 3, merged.TopK)
	assert.Equal(t, "pc", merged.Platform)
	assert.Equal(t, "data/dataset.yaml", merged.Dataset)
	assert.Equal(t, 4, merged.Workers)
	assert.Equal(t, 2*time.Second, merged.TimeBudget)
	assert.Equal(t, "info", merged.LogLevel)
	assert.Equal(t, Config{TopK: 3, Platform: "pc"}, *cfg, "receiver is not modified")
}
