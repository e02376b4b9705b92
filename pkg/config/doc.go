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

// Package config loads xferlock plan files.
//
//	+-------------+      +-------------+
//	|  plan file  | ---> |   Config    |
//	| yaml/json/  |      | (validated) |
//	|    hcl      |      +------+------+
//	+-------------+             |
//	                     +------+------+
//	                     |transfer.Plan|
//	                     +-------------+
//
// 🎯 Purpose:
// - Parses plan files in YAML, JSON or HCL
// - Rejects unknown fields, bad operations and protected destinations
// - Builds a transfer.Plan from the validated steps
//
// 🔄 Flow:
// 1. Load picks a parser from the file extension
// 2. The parser decodes into Config
// 3. Validate applies defaults and checks every step
// 4. Plan hands the steps to the transfer package
//
// 📝 YAML example:
//
//	cleanup: strict
//	protect:
//	  - "**/.git/**"
//	steps:
//	  - source: a.txt
//	    destination: b.txt
//	    operation: copy
//
// 📝 HCL example:
//
//	cleanup = "best-effort"
//
//	step {
//	  source      = "m.dat"
//	  destination = "n.dat"
//	  operation   = "move"
//	}
package config
