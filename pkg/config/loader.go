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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser decodes a plan file format
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load reads, parses and validates the plan file at path.
// The format comes from the extension: .json, .yaml/.yml or .hcl. A
// .xferlock file is tried as YAML first, then HCL.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading plan file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading plan file: %w", err)
	}

	cfg, err := Parse(ctx, path, data)
	if err != nil {
		return nil, err
	}
	cfg.location = path

	return cfg, nil
}

// 📝 Parse decodes and validates plan file data; filename selects the format
func Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	var (
		cfg *Config
		err error
	)

	if strings.ToLower(filepath.Ext(filename)) == ".xferlock" {
		cfg, err = (&YAMLParser{}).Parse(ctx, filename, data)
		if err != nil {
			cfg, err = (&HCLParser{}).Parse(ctx, filename, data)
		}
		if err != nil {
			return nil, errors.Errorf("parsing %s as YAML or HCL: %w", filename, err)
		}
	} else {
		p := GetParser(filename)
		if p == nil {
			return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(filename))
		}
		cfg, err = p.Parse(ctx, filename, data)
		if err != nil {
			return nil, errors.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
