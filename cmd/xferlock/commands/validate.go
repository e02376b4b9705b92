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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xferlock/cmd/xferlock/opts"
	"github.com/walteh/xferlock/pkg/config"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every source of a plan exists",
		Long: `Validate loads a plan file and checks that every source exists.
Nothing is locked or written. The command fails when any source is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "validate").Logger().WithContext(cmd.Context())
			ul := opts.UserLogger(ctx)

			cfg, err := config.Load(ctx, opts.ConfigFile)
			if err != nil {
				return errors.Errorf("loading plan: %w", err)
			}

			plan, err := cfg.Plan(opts.Filesystem(), transfer.Options{}, opts.Path)
			if err != nil {
				return errors.Errorf("building plan: %w", err)
			}

			missing := plan.MissingSources(ctx)
			for _, src := range missing {
				ul.LogValidation(false, fmt.Sprintf("missing source %s", src), nil)
			}
			if len(missing) > 0 {
				return errors.Errorf("%d of %d sources missing: %w", len(missing), len(plan.Steps()), transfer.ErrFilesNotFound)
			}

			ul.LogValidation(true, fmt.Sprintf("all %d sources present", len(plan.Steps())), nil)
			return nil
		},
	}

	return cmd
}
