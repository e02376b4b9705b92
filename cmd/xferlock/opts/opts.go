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


package opts

import (
	"context"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/walteh/xferlock/pkg/guard"
	"github.com/walteh/xferlock/pkg/lock"
	"github.com/walteh/xferlock/pkg/log"
	"github.com/walteh/xferlock/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Root       string
	Debug      bool
	Console    io.Writer
}

// 📁 Filesystem returns the filesystem steps resolve against.
// Without a root it is the host filesystem and step paths go through Path.
func (o *RootOpts) Filesystem() billy.Filesystem {
	if o.Root == "" {
		return osfs.New(string(filepath.Separator))
	}
	return osfs.New(o.Root)
}

// 🧭 Path resolves a step path for Filesystem. Without a root, relative
// paths are made absolute against the working directory.
func (o *RootOpts) Path(p string) (string, error) {
	if o.Root != "" || filepath.IsAbs(p) {
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}

// 📢 UserLogger builds a console logger; lock events are shown in debug mode
func (o *RootOpts) UserLogger(ctx context.Context) *log.UserLogger {
	return log.NewUserLogger(ctx, o.Console, o.Debug)
}

// 🔐 Guarded runs plan under source locks on fs and prints a summary
func (o *RootOpts) Guarded(ctx context.Context, fs billy.Filesystem, plan func(transfer.Options) (*transfer.Plan, error)) (guard.Result, error) {
	ul := o.UserLogger(ctx)
	topts, lopts, gopts := ul.Hooks()

	p, err := plan(topts)
	if err != nil {
		return guard.Result{}, err
	}

	res, err := guard.WithLock(ctx, lock.New(fs, lopts), p, gopts)
	// a failed lock phase has nothing to summarize
	if res.State == guard.Done || res.Locked > 0 {
		ul.LogSummary(res)
	}
	return res, err
}
