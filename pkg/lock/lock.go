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

// Package lock takes exclusive advisory locks on the sources of a transfer plan.
//
// Locks are advisory: they only exclude other processes that lock the same
// files, and they do not exclude other goroutines of this process. The lock
// handle is what holds the lock, so a Set keeps every handle open until
// UnlockAll releases it.
package lock

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// ErrLockOpen is returned when a source cannot be opened for locking
var ErrLockOpen = errors.Base("opening source for lock")

// ❌ OpenError reports a source that could not be opened for locking.
// It matches ErrLockOpen and the underlying cause with errors.Is.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrLockOpen, e.Path, e.Err)
}

func (e *OpenError) Unwrap() []error {
	return []error{ErrLockOpen, e.Err}
}

// 🔔 EventKind classifies lock events
type EventKind int

const (
	Acquired EventKind = iota
	AcquireFailed
	Released
	ReleaseFailed
)

// 🔔 Event reports one lock or unlock attempt
type Event struct {
	Kind EventKind
	Path string
	Err  error
}

// 🔧 Options configures a Locker
type Options struct {
	// OnEvent, when set, is called for every lock and unlock attempt
	OnEvent func(ctx context.Context, ev Event)
}

// 🔒 Locker acquires and releases locks on plan sources
type Locker struct {
	fs   billy.Filesystem
	opts Options
}

// 🏭 New creates a locker over fs
func New(fs billy.Filesystem, opts Options) *Locker {
	return &Locker{fs: fs, opts: opts}
}

type held struct {
	path string
	file billy.File
}

// 🗝️ Set is the group of locks held by one guarded run, one per unique
// source path, in the order they were taken
type Set struct {
	held []held
}

// Paths returns the locked paths in acquisition order
func (s *Set) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, 0, len(s.held))
	for _, h := range s.held {
		paths = append(paths, h.path)
	}
	return paths
}

// Len returns the number of held locks
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.held)
}

// 🔒 LockAll opens each step's source in plan order and takes an exclusive
// lock on it. Steps sharing a source share one lock.
//
// An open failure is returned as an error matching ErrLockOpen. A failed lock
// attempt returns ok=false. In both cases every lock taken so far is released
// before returning, and the returned set is empty.
func (l *Locker) LockAll(ctx context.Context, steps []transfer.Step) (*Set, bool, error) {
	logger := zerolog.Ctx(ctx)

	set := &Set{}
	seen := make(map[string]bool, len(steps))

	for _, step := range steps {
		path := filepath.Clean(step.Source)
		if seen[path] {
			continue
		}
		seen[path] = true

		file, err := l.fs.Open(path)
		if err != nil {
			l.UnlockAll(ctx, set)
			return &Set{}, false, &OpenError{Path: path, Err: err}
		}

		if err := file.Lock(); err != nil {
			_ = file.Close()
			logger.Debug().Err(err).Str("source", path).Msg("lock not acquired")
			l.emit(ctx, Event{Kind: AcquireFailed, Path: path, Err: err})
			l.UnlockAll(ctx, set)
			return &Set{}, false, nil
		}

		logger.Debug().Str("source", path).Msg("lock acquired")
		l.emit(ctx, Event{Kind: Acquired, Path: path})
		set.held = append(set.held, held{path: path, file: file})
	}

	return set, true, nil
}

// 🔓 UnlockAll releases every lock in the set, in acquisition order, and
// closes the handles. A source that no longer exists (moved away during the
// run) counts as released even if its release call failed. Returns false if
// any other release failed; the remaining locks are still released.
func (l *Locker) UnlockAll(ctx context.Context, set *Set) bool {
	if set == nil {
		return true
	}
	logger := zerolog.Ctx(ctx)

	ok := true
	for _, h := range set.held {
		err := release(h.file)
		if err != nil && l.exists(h.path) {
			logger.Error().Err(err).Str("source", h.path).Msg("releasing lock")
			l.emit(ctx, Event{Kind: ReleaseFailed, Path: h.path, Err: err})
			ok = false
			continue
		}
		logger.Debug().Str("source", h.path).Msg("lock released")
		l.emit(ctx, Event{Kind: Released, Path: h.path})
	}
	set.held = nil

	return ok
}

func release(file billy.File) error {
	unlockErr := file.Unlock()
	closeErr := file.Close()
	if unlockErr != nil {
		return errors.Errorf("unlocking: %w", unlockErr)
	}
	if closeErr != nil {
		return errors.Errorf("closing: %w", closeErr)
	}
	return nil
}

func (l *Locker) exists(path string) bool {
	_, err := l.fs.Stat(path)
	return err == nil
}

func (l *Locker) emit(ctx context.Context, ev Event) {
	if l.opts.OnEvent != nil {
		l.opts.OnEvent(ctx, ev)
	}
}
