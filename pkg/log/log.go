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

// Package log prints user-facing progress for xferlock and mirrors it to zerolog.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/xferlock/pkg/guard"
	"github.com/walteh/xferlock/pkg/lock"
	"github.com/walteh/xferlock/pkg/transfer"
)

// 📢 UserLogger provides user-friendly feedback about a guarded transfer
type UserLogger struct {
	log     zerolog.Logger // for debug/error logging
	console io.Writer
	verbose bool
	mu      sync.Mutex
}

// 🎯 NewUserLogger creates a user logger writing to console.
// Lock events are only printed when verbose is set.
func NewUserLogger(ctx context.Context, console io.Writer, verbose bool) *UserLogger {
	return &UserLogger{
		log:     *zerolog.Ctx(ctx),
		console: console,
		verbose: verbose,
	}
}

func (u *UserLogger) printer(p pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return p.WithPrefix(pterm.Prefix{Text: prefix, Style: p.Prefix.Style}).WithWriter(u.console)
}

// 🔒 LogLockEvent logs a lock or unlock attempt
func (u *UserLogger) LogLockEvent(ctx context.Context, ev lock.Event) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch ev.Kind {
	case lock.Acquired:
		u.log.Debug().Str("source", ev.Path).Msg("acquired lock")
		if u.verbose {
			u.printer(pterm.Info, "🔒").Printfln("Acquired lock on %s", ev.Path)
		}
	case lock.Released:
		u.log.Debug().Str("source", ev.Path).Msg("released lock")
		if u.verbose {
			u.printer(pterm.Info, "🔓").Printfln("Released lock on %s", ev.Path)
		}
	case lock.AcquireFailed:
		u.log.Error().Err(ev.Err).Str("source", ev.Path).Msg("failed to acquire lock")
		u.printer(pterm.Error, "🔒").Printfln("Failed to acquire lock on %s: %v", ev.Path, ev.Err)
	case lock.ReleaseFailed:
		u.log.Error().Err(ev.Err).Str("source", ev.Path).Msg("failed to release lock")
		u.printer(pterm.Error, "🔓").Printfln("Failed to release lock on %s: %v", ev.Path, ev.Err)
	}
}

// 📝 LogStep prints one finished step
func (u *UserLogger) LogStep(ctx context.Context, r transfer.StepResult) {
	u.mu.Lock()
	defer u.mu.Unlock()

	fmt.Fprintln(u.console, FormatStep(r))

	event := u.log.Info()
	if r.CleanupErr != nil {
		event = u.log.Warn().AnErr("cleanup_error", r.CleanupErr)
	}
	event.
		Int("index", r.Index).
		Str("operation", r.Step.Operation.String()).
		Str("source", r.Step.Source).
		Str("destination", r.Step.Destination).
		Int64("bytes", r.Bytes).
		Msg("step")
}

// 🚦 LogState records a guarded run state change
func (u *UserLogger) LogState(ctx context.Context, s guard.State) {
	u.log.Debug().Str("state", s.String()).Msg("guarded run state")
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch {
	case valid:
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		u.printer(pterm.Error, "❌").Println(description)
		pterm.Error.WithWriter(u.console).Println(err)
		u.log.Error().Err(err).Msg(description)
	default:
		u.printer(pterm.Warning, "⚠️").Println(description)
		u.log.Warn().Msg(description)
	}
}

// 📊 LogSummary prints the outcome of a guarded run
func (u *UserLogger) LogSummary(res guard.Result) {
	u.LogValidation(res.State == guard.Done, FormatSummary(res), nil)
}

// 🔌 Hooks returns transfer, lock and guard options wired to this logger
func (u *UserLogger) Hooks() (transfer.Options, lock.Options, guard.Options) {
	return transfer.Options{OnStep: u.LogStep},
		lock.Options{OnEvent: u.LogLockEvent},
		guard.Options{OnState: u.LogState}
}
