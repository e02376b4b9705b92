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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL.
// The variable "dir" holds the directory of the plan file, and "env" the
// process environment, so a step can say destination = "${dir}/out.txt".
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"dir": cty.StringVal(filepath.Dir(filename)),
			"env": envValue(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Cleanup *string  `hcl:"cleanup,optional"`
		Protect []string `hcl:"protect,optional"`
		Steps   []struct {
			Source      string  `hcl:"source"`
			Destination string  `hcl:"destination"`
			Operation   *string `hcl:"operation,optional"`
		} `hcl:"step,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Protect: hclCfg.Protect,
	}
	if hclCfg.Cleanup != nil {
		cfg.Cleanup = *hclCfg.Cleanup
	}
	for _, s := range hclCfg.Steps {
		step := StepArgs{
			Source:      s.Source,
			Destination: s.Destination,
		}
		if s.Operation != nil {
			step.Operation = *s.Operation
		}
		cfg.Steps = append(cfg.Steps, step)
	}

	return cfg, nil
}

func envValue() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
