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


package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xferlock/cmd/xferlock/opts"
	"github.com/walteh/xferlock/pkg/config"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a transfer plan under source locks",
		Long: `Run executes every step of a plan file.
It will:
1. Load and validate the plan
2. Lock every source
3. Copy or move each step in order
4. Release the locks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "run").Logger().WithContext(cmd.Context())

			cfg, err := config.Load(ctx, opts.ConfigFile)
			if err != nil {
				return errors.Errorf("loading plan: %w", err)
			}

			fs := opts.Filesystem()
			_, err = opts.Guarded(ctx, fs, func(topts transfer.Options) (*transfer.Plan, error) {
				return cfg.Plan(fs, topts, opts.Path)
			})
			if err != nil {
				return errors.Errorf("running %s: %w", opts.ConfigFile, err)
			}

			return nil
		},
	}

	return cmd
}
