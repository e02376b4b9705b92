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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xferlock/cmd/xferlock/opts"
	"github.com/walteh/xferlock/pkg/config"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// NewPlanCmd creates a new plan command
func NewPlanCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the steps of a plan file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "plan").Logger().WithContext(cmd.Context())

			cfg, err := config.Load(ctx, opts.ConfigFile)
			if err != nil {
				return errors.Errorf("loading plan: %w", err)
			}

			steps, err := cfg.TransferSteps()
			if err != nil {
				return errors.Errorf("reading steps: %w", err)
			}

			data := pterm.TableData{{"#", "OPERATION", "SOURCE", "DESTINATION"}}
			for i, s := range steps {
				data = append(data, []string{strconv.Itoa(i), s.Operation.String(), s.Source, s.Destination})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering plan: %w", err)
			}

			// already checked by Load
			cleanup, _ := transfer.ParseCleanupPolicy(cfg.Cleanup)

			fmt.Fprintln(opts.Console, table)
			fmt.Fprintf(opts.Console, "%d step(s), cleanup %s\n", len(steps), cleanup)
			return nil
		},
	}

	return cmd
}
