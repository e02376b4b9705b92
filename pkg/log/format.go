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

package log

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/xferlock/pkg/guard"
	"github.com/walteh/xferlock/pkg/transfer"
)

// 🎨 Display configuration
const (
	stepIndent = 4  // spaces to indent step entries
	pathWidth  = 30 // width for source and destination
	opWidth    = 6  // width for the operation name
)

// 🎯 FormatStep formats a finished step for display
func FormatStep(r transfer.StepResult) string {
	var prefix string
	switch {
	case r.CleanupErr != nil:
		prefix = color.YellowString("⚠")
	case r.Step.Operation == transfer.Move:
		prefix = color.BlueString("➜")
	default:
		prefix = color.GreenString("✓")
	}

	line := fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat(" ", stepIndent),
		prefix,
		color.New(color.Faint).Sprintf("%-*s", opWidth, r.Step.Operation),
		fmt.Sprintf("%-*s", pathWidth, r.Step.Source),
		fmt.Sprintf("%-*s", pathWidth, "→ "+r.Step.Destination),
		FormatBytes(r.Bytes),
	)

	if r.CleanupErr != nil {
		line += " " + color.YellowString("(source kept: %v)", r.CleanupErr)
	}
	return line
}

// 📊 FormatSummary formats the outcome of a guarded run
func FormatSummary(res guard.Result) string {
	locks := "locks released"
	if !res.Unlocked {
		locks = "some locks not released"
	}
	return fmt.Sprintf("%s transferred, %d source(s) locked, %s", FormatBytes(res.Bytes), res.Locked, locks)
}

// 📏 FormatBytes renders a byte count with a binary unit
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
