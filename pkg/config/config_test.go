// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "plan.yaml",
			config: `
cleanup: strict
protect:
  - "**/.git/**"
steps:
  - source: a.txt
    destination: b.txt
    operation: copy
  - source: m.dat
    destination: n.dat
    operation: move
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "strict", cfg.Cleanup, "cleanup should match")
				assert.Equal(t, []string{"**/.git/**"}, cfg.Protect, "protect should match")
				require.Len(t, cfg.Steps, 2, "should have 2 steps")
				assert.Equal(t, StepArgs{Source: "m.dat", Destination: "n.dat", Operation: "move"}, cfg.Steps[1])
			},
		},
		{
			name:     "valid_json",
			filename: "plan.json",
			config:   `{"steps": [{"source": "a.txt", "destination": "b.txt"}]}`,
			check: func(t *testing.T, cfg *Config) {
				steps, err := cfg.TransferSteps()
				require.NoError(t, err)
				assert.Equal(t, []transfer.Step{{Source: "a.txt", Destination: "b.txt", Operation: transfer.Copy}}, steps, "operation should default to copy")
			},
		},
		{
			name:     "valid_hcl",
			filename: "plan.hcl",
			config: `
cleanup = "best-effort"
protect = ["*.lock"]

step {
  source      = "a.txt"
  destination = "b.txt"
}

step {
  source      = "m.dat"
  destination = "n.dat"
  operation   = "move"
}
`,
			check: func(t *testing.T, cfg *Config) {
				steps, err := cfg.TransferSteps()
				require.NoError(t, err)
				require.Len(t, steps, 2)
				assert.Equal(t, transfer.Copy, steps[0].Operation)
				assert.Equal(t, transfer.Move, steps[1].Operation)
				assert.Equal(t, []string{"*.lock"}, cfg.Protect)
			},
		},
		{
			name:     "hcl_dir_variable",
			filename: "plan.hcl",
			config: `
step {
  source      = "a.txt"
  destination = "${dir}/b.txt"
}
`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Steps, 1)
				assert.Equal(t, filepath.Join(filepath.Dir(cfg.Location()), "b.txt"), cfg.Steps[0].Destination)
			},
		},
		{
			name:     "dotfile_as_yaml",
			filename: ".xferlock",
			config: `
steps:
  - source: a.txt
    destination: b.txt
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Len(t, cfg.Steps, 1)
			},
		},
		{
			name:     "dotfile_as_hcl",
			filename: "plan.xferlock",
			config: `
step {
  source      = "a.txt"
  destination = "b.txt"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Len(t, cfg.Steps, 1)
			},
		},
		{
			name:     "empty_yaml_is_empty_plan",
			filename: "plan.yaml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Steps)
			},
		},
		{
			name:     "unknown_yaml_field",
			filename: "plan.yaml",
			config: `
steps:
  - source: a.txt
    destination: b.txt
    checksum: true
`,
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "plan.json",
			config:      `{"steps": [], "resume": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unknown_operation",
			filename:    "plan.yaml",
			config:      "steps:\n  - source: a.txt\n    destination: b.txt\n    operation: link\n",
			wantErr:     true,
			errContains: "unknown operation",
		},
		{
			name:        "missing_source",
			filename:    "plan.yaml",
			config:      "steps:\n  - destination: b.txt\n",
			wantErr:     true,
			errContains: "source is required",
		},
		{
			name:        "bad_cleanup",
			filename:    "plan.yaml",
			config:      "cleanup: sometimes\n",
			wantErr:     true,
			errContains: "unknown cleanup policy",
		},
		{
			name:        "bad_protect_pattern",
			filename:    "plan.yaml",
			config:      "protect: [\"[\"]\n",
			wantErr:     true,
			errContains: "invalid pattern",
		},
		{
			name:        "protected_destination",
			filename:    "plan.yaml",
			config:      "protect: [\"**/.git/**\"]\nsteps:\n  - source: a.txt\n    destination: repo/.git/config\n",
			wantErr:     true,
			errContains: "destination is protected",
		},
		{
			name:        "unsupported_extension",
			filename:    "plan.toml",
			config:      "",
			wantErr:     true,
			errContains: "unsupported file extension",
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.filename)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, configPath, cfg.Location())
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestProtectedDestinationError(t *testing.T) {
	cfg := &Config{
		Protect: []string{"secrets/*"},
		Steps:   []StepArgs{{Source: "a.txt", Destination: "secrets/key"}},
	}
	_, err := cfg.TransferSteps()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtectedDestination))

	pattern, ok := cfg.Protected("./secrets/key")
	assert.True(t, ok)
	assert.Equal(t, "secrets/*", pattern)

	_, ok = cfg.Protected("public/key")
	assert.False(t, ok)
}

func TestConfigPlan(t *testing.T) {
	cfg := &Config{
		Cleanup: "strict",
		Steps: []StepArgs{
			{Source: "a.txt", Destination: "b.txt"},
			{Source: "m.dat", Destination: "n.dat", Operation: "MOVE"},
		},
	}

	plan, err := cfg.Plan(memfs.New(), transfer.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, transfer.CleanupStrict, plan.Options().Cleanup)
	assert.Equal(t, []transfer.Step{
		{Source: "a.txt", Destination: "b.txt", Operation: transfer.Copy},
		{Source: "m.dat", Destination: "n.dat", Operation: transfer.Move},
	}, plan.Steps())
}

func TestConfigPlanResolvesAfterProtect(t *testing.T) {
	resolve := func(p string) (string, error) { return filepath.Join("/base", p), nil }

	cfg := &Config{Steps: []StepArgs{{Source: "a.txt", Destination: "out/b.txt"}}}
	plan, err := cfg.Plan(memfs.New(), transfer.Options{}, resolve)
	require.NoError(t, err)
	assert.Equal(t, []transfer.Step{
		{Source: filepath.Join("/base", "a.txt"), Destination: filepath.Join("/base", "out/b.txt"), Operation: transfer.Copy},
	}, plan.Steps())

	cfg.Protect = []string{"out/**"}
	_, err = cfg.Plan(memfs.New(), transfer.Options{}, resolve)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtectedDestination), "protect patterns apply to paths as written")
}
