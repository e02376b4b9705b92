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
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// ErrProtectedDestination is returned when a step would write to a protected path
var ErrProtectedDestination = errors.Base("destination is protected")

// 📦 StepArgs is one step as written in a plan file
type StepArgs struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	// Operation is "copy" or "move"; empty means copy
	Operation string `json:"operation,omitempty" yaml:"operation,omitempty"`
}

// 📚 Config is a complete plan file
type Config struct {
	// Cleanup is "best-effort" (default) or "strict"
	Cleanup string `json:"cleanup,omitempty" yaml:"cleanup,omitempty"`
	// Protect lists doublestar patterns no destination may match
	Protect []string   `json:"protect,omitempty" yaml:"protect,omitempty"`
	Steps   []StepArgs `json:"steps" yaml:"steps"`

	location string
}

// Location returns the path the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks the cleanup policy, the protect patterns and every step
func (cfg *Config) Validate() error {
	if _, err := transfer.ParseCleanupPolicy(cfg.Cleanup); err != nil {
		return errors.Errorf("cleanup: %w", err)
	}

	for _, pattern := range cfg.Protect {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("protect: invalid pattern %q", pattern)
		}
	}

	if _, err := cfg.TransferSteps(); err != nil {
		return err
	}

	return nil
}

// 🔀 TransferSteps converts the file steps into transfer steps, in order
func (cfg *Config) TransferSteps() ([]transfer.Step, error) {
	steps := make([]transfer.Step, 0, len(cfg.Steps))
	for i, s := range cfg.Steps {
		opName := s.Operation
		if opName == "" {
			opName = transfer.Copy.String()
		}
		op, err := transfer.ParseOperation(opName)
		if err != nil {
			return nil, errors.Errorf("steps[%d]: %w", i, err)
		}

		step, err := transfer.NewStep(s.Source, s.Destination, op)
		if err != nil {
			return nil, errors.Errorf("steps[%d]: %w", i, err)
		}

		if pattern, ok := cfg.Protected(step.Destination); ok {
			return nil, errors.Errorf("steps[%d]: %w: %s matches %q", i, ErrProtectedDestination, step.Destination, pattern)
		}

		steps = append(steps, step)
	}
	return steps, nil
}

// 🛡️ Protected returns the first protect pattern that matches dest
func (cfg *Config) Protected(dest string) (string, bool) {
	name := filepath.ToSlash(filepath.Clean(dest))
	for _, pattern := range cfg.Protect {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			continue
		}
		if matched {
			return pattern, true
		}
	}
	return "", false
}

// 📋 Plan builds a transfer plan over fs from the config.
// When resolve is set every step path goes through it, after the protect
// patterns have been matched against the paths as written.
func (cfg *Config) Plan(fs billy.Filesystem, opts transfer.Options, resolve func(string) (string, error)) (*transfer.Plan, error) {
	steps, err := cfg.TransferSteps()
	if err != nil {
		return nil, err
	}

	if resolve != nil {
		for i := range steps {
			if steps[i].Source, err = resolve(steps[i].Source); err != nil {
				return nil, errors.Errorf("steps[%d]: %w", i, err)
			}
			if steps[i].Destination, err = resolve(steps[i].Destination); err != nil {
				return nil, errors.Errorf("steps[%d]: %w", i, err)
			}
		}
	}

	policy, err := transfer.ParseCleanupPolicy(cfg.Cleanup)
	if err != nil {
		return nil, errors.Errorf("cleanup: %w", err)
	}
	opts.Cleanup = policy

	return transfer.NewPlan(fs, steps, opts), nil
}
