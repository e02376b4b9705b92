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

//go:build linux || darwin

package lock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/xferlock/pkg/lock"
	"github.com/walteh/xferlock/pkg/testutils"
	"golang.org/x/sys/unix"
)

// tryLock reports whether an independent handle can take the lock right now
func tryLock(t *testing.T, path string) bool {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		require.ErrorIs(t, err, unix.EWOULDBLOCK)
		return false
	}
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_UN))
	return true
}

func TestLockIsHeldUntilUnlock(t *testing.T) {
	ctx := testutils.Context(t)
	dir := t.TempDir()
	fsys := osfs.New(dir)
	testutils.WriteFiles(t, fsys, map[string]string{"a.txt": "hello"})
	path := filepath.Join(dir, "a.txt")

	locker := lock.New(fsys, lock.Options{})
	set, ok, err := locker.LockAll(ctx, steps(t, "a.txt", "b.txt"))
	require.NoError(t, err)
	require.True(t, ok)

	assert.False(t, tryLock(t, path), "another handle must not get the lock while the set holds it")

	require.True(t, locker.UnlockAll(ctx, set))
	assert.True(t, tryLock(t, path), "the lock must be free after UnlockAll")
}
