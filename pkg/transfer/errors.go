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
	"io/fs"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFilesNotFound is returned by Run when any source is missing.
	// It matches fs.ErrNotExist.
	ErrFilesNotFound = errors.BaseWrap(fs.ErrNotExist, "files not found")

	// ErrCopyFailed marks a step whose byte copy failed
	ErrCopyFailed = errors.Base("copy failed")

	// ErrCleanupFailed marks a move whose source could not be removed (strict cleanup only)
	ErrCleanupFailed = errors.Base("source cleanup failed")

	// ErrNotRegular marks a source that is a directory or other non-regular file
	ErrNotRegular = errors.Base("source is not a regular file")

	// ErrSameFile marks a destination that resolves to the source file itself,
	// through a symlink or a hard link
	ErrSameFile = errors.Base("destination is the source file")

	// ErrInvalidStep is returned when a step cannot be constructed
	ErrInvalidStep = errors.Base("invalid step")
)

// ❌ StepError reports which step of a plan failed and why.
// It matches both its Kind sentinel and the underlying cause with errors.Is.
type StepError struct {
	Kind  error
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v: %v", e.Index, e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
