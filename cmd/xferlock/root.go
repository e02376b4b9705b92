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


package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xferlock/cmd/xferlock/commands"
	"github.com/walteh/xferlock/cmd/xferlock/opts"
)

// NewRootCmd builds the xferlock command tree; user feedback goes to console
func NewRootCmd(console io.Writer) *cobra.Command {
	o := &opts.RootOpts{Console: console}

	rootCmd := &cobra.Command{
		Use:   "xferlock",
		Short: "Copy and move files while holding locks on every source",
		Long: `xferlock checks that every source of a transfer plan exists, locks all of
them, runs each copy or move step in order, and then releases every lock,
even when a step fails.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(cmd.ErrOrStderr(), o.Debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewValidateCmd(o),
		commands.NewPlanCmd(o),
		commands.NewCopyCmd(o),
		commands.NewMoveCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".xferlock.yaml", "plan file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.Root, "root", "", "base directory for relative step paths")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
