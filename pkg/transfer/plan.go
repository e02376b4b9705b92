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

package transfer

import (
	"context"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🧹 CleanupPolicy decides what a move does when its source cannot be removed
type CleanupPolicy int

const (
	// CleanupBestEffort logs the removal failure and keeps going. The data is
	// already at the destination, so the step still counts as done.
	CleanupBestEffort CleanupPolicy = iota
	// CleanupStrict fails the run with ErrCleanupFailed
	CleanupStrict
)

func (c CleanupPolicy) String() string {
	if c == CleanupStrict {
		return "strict"
	}
	return "best-effort"
}

// 🔍 ParseCleanupPolicy accepts "best-effort" (or empty) and "strict"
func ParseCleanupPolicy(s string) (CleanupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best-effort", "besteffort":
		return CleanupBestEffort, nil
	case "strict":
		return CleanupStrict, nil
	default:
		return 0, errors.Errorf("unknown cleanup policy %q", s)
	}
}

// 📊 StepResult describes one finished step
type StepResult struct {
	Index int
	Step  Step
	Bytes int64
	// CleanupErr is the swallowed source removal error of a best-effort move
	CleanupErr error
}

// 🔧 Options tunes how a plan executes
type Options struct {
	Cleanup CleanupPolicy
	// OnStep, when set, is called after every step that completes
	OnStep func(ctx context.Context, result StepResult)
}

// 🏃 Runner is the capability a guarded run needs from a plan
type Runner interface {
	// Steps returns the steps in plan order
	Steps() []Step
	// Validate reports whether every source exists right now
	Validate(ctx context.Context) bool
	// Run executes every step and returns the total bytes copied
	Run(ctx context.Context) (int64, error)
}

var _ Runner = (*Plan)(nil)

// 📋 Plan is an ordered, immutable batch of steps over one filesystem
type Plan struct {
	fs    billy.Filesystem
	steps []Step
	opts  Options
}

// 🏭 NewPlan creates a plan. The steps are copied; order is kept and
// duplicates are allowed.
func NewPlan(fs billy.Filesystem, steps []Step, opts Options) *Plan {
	return &Plan{
		fs:    fs,
		steps: slices.Clone(steps),
		opts:  opts,
	}
}

// Steps returns a copy of the plan's steps
func (p *Plan) Steps() []Step {
	return slices.Clone(p.steps)
}

// Options returns the options the plan was built with
func (p *Plan) Options() Options {
	return p.opts
}

// ✅ Validate checks every source, without short-circuiting, and returns true
// only if all of them exist. Stat errors count as missing.
func (p *Plan) Validate(ctx context.Context) bool {
	return len(p.MissingSources(ctx)) == 0
}

// 🔍 MissingSources returns the sources that do not exist, in plan order
func (p *Plan) MissingSources(ctx context.Context) []string {
	logger := zerolog.Ctx(ctx)

	var missing []string
	for _, step := range p.steps {
		if !exists(p.fs, step.Source) {
			logger.Debug().Str("source", step.Source).Msg("source does not exist")
			missing = append(missing, step.Source)
		}
	}
	return missing
}

// 🚚 Run re-validates the plan and then executes each step in order.
//
// If any source is missing nothing is touched and the error matches
// ErrFilesNotFound. The first copy failure stops the run with a *StepError
// matching ErrCopyFailed; steps that already completed stay in place. The
// returned byte count covers the steps that completed.
func (p *Plan) Run(ctx context.Context) (int64, error) {
	logger := zerolog.Ctx(ctx)

	if !p.Validate(ctx) {
		return 0, errors.Errorf("validating plan: %w", ErrFilesNotFound)
	}

	var total int64
	for i, step := range p.steps {
		result, err := p.runStep(ctx, i, step)
		total += result.Bytes
		if err != nil {
			return total, err
		}

		logger.Debug().
			Int("index", i).
			Str("operation", step.Operation.String()).
			Str("source", step.Source).
			Str("destination", step.Destination).
			Int64("bytes", result.Bytes).
			Msg("step complete")

		if p.opts.OnStep != nil {
			p.opts.OnStep(ctx, result)
		}
	}

	return total, nil
}

func (p *Plan) runStep(ctx context.Context, i int, step Step) (StepResult, error) {
	result := StepResult{Index: i, Step: step}

	n, err := copyFile(p.fs, step.Source, step.Destination)
	if err != nil {
		return result, &StepError{Kind: ErrCopyFailed, Index: i, Step: step, Err: err}
	}
	result.Bytes = n

	if step.Operation != Move {
		return result, nil
	}

	if err := p.fs.Remove(step.Source); err != nil {
		if p.opts.Cleanup == CleanupStrict {
			return result, &StepError{Kind: ErrCleanupFailed, Index: i, Step: step, Err: err}
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("source", step.Source).Msg("moved file but could not remove source")
		result.CleanupErr = err
	}

	return result, nil
}
