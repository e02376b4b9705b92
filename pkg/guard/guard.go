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

// Package guard runs a transfer plan while holding locks on all of its sources.
//
//	Idle -> Locking -> Executing -> Unlocking -> Done
//	           |           |            |
//	           +-----------+------------+--> Failed
//
// Once the lock phase succeeds the locks are released on every exit path.
package guard

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/xferlock/pkg/lock"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrLocksNotAcquired is returned when any source lock could not be taken.
	// The plan is not run.
	ErrLocksNotAcquired = errors.Base("locks not acquired")

	// ErrUnlockFailed is returned when the plan ran but a lock on a source
	// that still exists could not be released
	ErrUnlockFailed = errors.Base("unlock failed")
)

// 🔒 Locker is what a guarded run needs to lock and unlock sources
type Locker interface {
	LockAll(ctx context.Context, steps []transfer.Step) (*lock.Set, bool, error)
	UnlockAll(ctx context.Context, set *lock.Set) bool
}

var _ Locker = (*lock.Locker)(nil)

// 🚦 State is a phase of a guarded run
type State int

const (
	Idle State = iota
	Locking
	Executing
	Unlocking
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Locking:
		return "locking"
	case Executing:
		return "executing"
	case Unlocking:
		return "unlocking"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📊 Result summarizes a guarded run
type Result struct {
	// Bytes is the total copied by the steps that completed
	Bytes int64
	// Locked is the number of distinct sources that were locked
	Locked int
	// Unlocked is false when some lock could not be released
	Unlocked bool
	// State is Done or Failed
	State State
}

// 🔧 Options configures a guarded run
type Options struct {
	// OnState, when set, is called on every state transition
	OnState func(ctx context.Context, state State)
}

// 🛡️ WithLock locks every source of runner, runs it, and releases the locks.
//
// A lock open error or a failed lock attempt stops the run before any step
// executes. When the plan fails the locks are still released and the plan's
// error is returned. When the plan succeeds but a release fails the error
// matches ErrUnlockFailed.
func WithLock(ctx context.Context, locker Locker, runner transfer.Runner, opts Options) (res Result, err error) {
	logger := zerolog.Ctx(ctx)
	enter := func(s State) {
		res.State = s
		logger.Debug().Str("state", s.String()).Msg("guarded run")
		if opts.OnState != nil {
			opts.OnState(ctx, s)
		}
	}

	enter(Locking)
	set, ok, err := locker.LockAll(ctx, runner.Steps())
	if err != nil {
		enter(Failed)
		return res, errors.Errorf("locking sources: %w", err)
	}
	if !ok {
		enter(Failed)
		return res, errors.Errorf("locking sources: %w", ErrLocksNotAcquired)
	}
	res.Locked = set.Len()

	defer func() {
		enter(Unlocking)
		res.Unlocked = locker.UnlockAll(ctx, set)
		if err == nil && !res.Unlocked {
			err = errors.Errorf("releasing locks: %w", ErrUnlockFailed)
		}
		if err != nil {
			enter(Failed)
			return
		}
		enter(Done)
	}()

	enter(Executing)
	res.Bytes, err = runner.Run(ctx)
	if err != nil {
		return res, errors.Errorf("running plan: %w", err)
	}

	logger.Info().Int64("bytes", res.Bytes).Int("locks", res.Locked).Msg("transfer complete")
	return res, nil
}
