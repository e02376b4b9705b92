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

// Package testutils holds shared helpers for xferlock tests.
package testutils

import (
	"context"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// 🧪 Context returns a context carrying a zerolog logger that writes to the test log
func Context(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

// 📄 WriteFiles creates each path with its content on fs
func WriteFiles(t *testing.T, fs billy.Filesystem, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644), "writing %s", path)
	}
}

// 📖 ReadFile returns the content of path on fs, failing the test on error
func ReadFile(t *testing.T, fs billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fs, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

// 🔍 Exists reports whether path exists on fs
func Exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// 💥 FaultyFS wraps a filesystem and injects errors per path.
// Files opened through Open record their Lock/Unlock calls.
type FaultyFS struct {
	billy.Filesystem

	OpenErr     map[string]error
	OpenFileErr map[string]error
	RemoveErr   map[string]error
	LockErr     map[string]error
	UnlockErr   map[string]error

	Locked   []string
	Unlocked []string
}

// 🏭 NewFaultyFS wraps an in-memory filesystem
func NewFaultyFS() *FaultyFS {
	return &FaultyFS{Filesystem: memfs.New()}
}

func (f *FaultyFS) Open(name string) (billy.File, error) {
	if err := f.OpenErr[name]; err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	file, err := f.Filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, path: name}, nil
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if err := f.OpenFileErr[name]; err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Filesystem.OpenFile(name, flag, perm)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.RemoveErr[name]; err != nil {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.Filesystem.Remove(name)
}

type faultyFile struct {
	billy.File
	fs   *FaultyFS
	path string
}

func (f *faultyFile) Lock() error {
	if err := f.fs.LockErr[f.path]; err != nil {
		return err
	}
	f.fs.Locked = append(f.fs.Locked, f.path)
	return f.File.Lock()
}

func (f *faultyFile) Unlock() error {
	if err := f.fs.UnlockErr[f.path]; err != nil {
		return err
	}
	f.fs.Unlocked = append(f.fs.Unlocked, f.path)
	return f.File.Unlock()
}
