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
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// NewCopyCmd creates a new copy command
func NewCopyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy SOURCE DESTINATION",
		Short: "Copy one file while holding a lock on the source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd, opts, args[0], args[1], transfer.Copy, transfer.CleanupBestEffort)
		},
	}

	return cmd
}

// NewMoveCmd creates a new move command
func NewMoveCmd(opts *opts.RootOpts) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "move SOURCE DESTINATION",
		Short: "Move one file while holding a lock on the source",
		Long: `Move copies SOURCE to DESTINATION and then removes SOURCE.
By default a source that cannot be removed is reported and left in place.
With --strict the command fails instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleanup := transfer.CleanupBestEffort
			if strict {
				cleanup = transfer.CleanupStrict
			}
			return runSingle(cmd, opts, args[0], args[1], transfer.Move, cleanup)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the source cannot be removed")

	return cmd
}

func runSingle(cmd *cobra.Command, opts *opts.RootOpts, src, dst string, op transfer.Operation, cleanup transfer.CleanupPolicy) error {
	ctx := zerolog.Ctx(cmd.Context()).With().Str("command", op.String()).Logger().WithContext(cmd.Context())

	src, err := opts.Path(src)
	if err != nil {
		return err
	}
	dst, err = opts.Path(dst)
	if err != nil {
		return err
	}

	step, err := transfer.NewStep(src, dst, op)
	if err != nil {
		return errors.Errorf("building step: %w", err)
	}

	fs := opts.Filesystem()
	_, err = opts.Guarded(ctx, fs, func(topts transfer.Options) (*transfer.Plan, error) {
		topts.Cleanup = cleanup
		return transfer.NewPlan(fs, []transfer.Step{step}, topts), nil
	})
	if err != nil {
		return errors.Errorf("%s: %w", step, err)
	}

	return nil
}
