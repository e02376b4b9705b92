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
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"gitlab.com/tozd/go/errors"
)

// 📥 copyFile writes a byte-identical duplicate of src at dst, truncating any
// existing file. Only content is copied: a new dst is created with the source
// permission bits (subject to umask) and an existing dst keeps its mode.
// Nothing is written when src is not a regular file or dst already is src.
func copyFile(fs billy.Filesystem, src, dst string) (int64, error) {
	info, err := fs.Stat(src)
	if err != nil {
		return 0, errors.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Errorf("%w: %s", ErrNotRegular, src)
	}

	if dstInfo, err := fs.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return 0, errors.Errorf("%w: %s and %s", ErrSameFile, src, dst)
	}

	in, err := fs.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, errors.Errorf("opening destination: %w", err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, errors.Errorf("copying bytes: %w", err)
	}

	if err := out.Close(); err != nil {
		return n, errors.Errorf("closing destination: %w", err)
	}

	return n, nil
}

func exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
