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

// Package transfer implements the plan of file copies and moves that xferlock executes.
//
//	+-------------+
//	|    Plan     |
//	| (Steps, Opt)|
//	+------+------+
//	       |
//	+------+------+
//	|    Step     |
//	| src -> dst  |
//	+-------------+
//
// 🎯 Purpose:
// - Describes an ordered batch of copy/move steps
// - Checks that every source exists before touching anything
// - Executes steps in order and reports the bytes transferred
//
// 🔄 Flow:
// 1. Caller builds steps with NewStep
// 2. NewPlan takes ownership of the steps
// 3. Run re-validates, then copies (and removes sources for moves)
//
// ⚡ Key Responsibilities:
// - Existence checks (Validate, MissingSources)
// - Byte copy and source cleanup over a billy.Filesystem
// - Error kinds for each failure phase
//
// 🤝 Interfaces:
// - Runner: what the guard package needs from a plan
// - billy.Filesystem: the filesystem collaborator
//
// 📝 Locking is not done here. A Plan run on its own is unguarded; wrap it with
// guard.WithLock to hold advisory locks on the sources for the whole run.
//
// 🔍 Example:
//
//	step, _ := transfer.NewStep("a.txt", "b.txt", transfer.Copy)
//	plan := transfer.NewPlan(osfs.New(dir), []transfer.Step{step}, transfer.Options{})
//	n, err := plan.Run(ctx)
package transfer
