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
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔀 Operation is what a step does with its source
type Operation int

const (
	// Copy duplicates the source at the destination
	Copy Operation = iota
	// Move copies the source to the destination, then removes the source
	Move
)

func (o Operation) String() string {
	switch o {
	case Copy:
		return "copy"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// 🔍 ParseOperation converts "copy" or "move" (any case) to an Operation
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return Copy, nil
	case "move":
		return Move, nil
	default:
		return 0, errors.Errorf("%w: unknown operation %q", ErrInvalidStep, s)
	}
}

func (o Operation) valid() bool {
	return o == Copy || o == Move
}

// 📦 Step is one source/destination/operation triple.
// Steps are values; two steps are equal when all three fields are equal.
type Step struct {
	Source      string
	Destination string
	Operation   Operation
}

// 🏭 NewStep builds a step, rejecting empty paths, unknown operations and
// steps whose destination is the source itself
func NewStep(source, destination string, op Operation) (Step, error) {
	if source == "" {
		return Step{}, errors.Errorf("%w: source is required", ErrInvalidStep)
	}
	if destination == "" {
		return Step{}, errors.Errorf("%w: destination is required", ErrInvalidStep)
	}
	if !op.valid() {
		return Step{}, errors.Errorf("%w: unknown operation %s", ErrInvalidStep, op)
	}
	if filepath.Clean(source) == filepath.Clean(destination) {
		return Step{}, errors.Errorf("%w: source and destination are the same path %q", ErrInvalidStep, source)
	}
	return Step{
		Source:      source,
		Destination: destination,
		Operation:   op,
	}, nil
}

// 📝 String returns a string representation of the step
func (s Step) String() string {
	return fmt.Sprintf("%s %s -> %s", s.Operation, s.Source, s.Destination)
}
