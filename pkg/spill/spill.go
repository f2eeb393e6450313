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

// Package spill flattens chains of single-entry directories. Archives
// commonly unpack to one top-level folder; spilling promotes the
// innermost content up to the intended destination.
package spill

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎰 state is the phase of the spill machine.
type state int

const (
	// stateDescending walks down the single-entry chain, promoting
	// each lone entry into the spill directory.
	stateDescending state = iota
	// stateMerging copies the current directory's contents into the
	// spill directory and finishes.
	stateMerging
	// stateDone terminates the machine.
	stateDone
)

// 🎯 Spill unwraps dst: as long as the current path is a directory
// with exactly one entry, that entry is renamed up into dst's parent
// and the walk continues from it. A directory with zero or multiple
// entries is merged into the parent (existing entries kept, conflicts
// overwritten) and the walk stops. A non-directory stops immediately.
func Spill(ctx context.Context, dst string) error {
	logger := zerolog.Ctx(ctx)

	// Destinations often arrive with a trailing slash ("./local/").
	// Clean first so the parent really is the parent, not dst itself.
	dst = filepath.Clean(dst)
	spillDir := filepath.Dir(dst)

	path := dst
	current := stateDescending
	for current != stateDone {
		switch current {
		case stateDescending:
			fi, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return errors.Errorf("inspecting %s: %w", path, err)
			}
			if !fi.IsDir() {
				current = stateDone
				continue
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return errors.Errorf("reading %s: %w", path, err)
			}
			if len(entries) != 1 {
				current = stateMerging
				continue
			}

			promoted := filepath.Join(spillDir, entries[0].Name())
			logger.Debug().
				Str("from", filepath.Join(path, entries[0].Name())).
				Str("to", promoted).
				Msg("promoting lone entry")
			if err := os.Rename(filepath.Join(path, entries[0].Name()), promoted); err != nil {
				return errors.Errorf("promoting %s: %w", entries[0].Name(), err)
			}
			path = promoted

		case stateMerging:
			logger.Debug().Str("from", path).Str("to", spillDir).Msg("merging directory")
			if err := mergeTree(path, spillDir); err != nil {
				return errors.Errorf("merging %s into %s: %w", path, spillDir, err)
			}
			current = stateDone
		}
	}
	return nil
}

// mergeTree recursively copies the contents of src into dst. Existing
// entries in dst survive; files that collide are overwritten.
func mergeTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := mergeTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// copyFile copies src over dst, truncating any previous content.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	// Opening the same inode with O_TRUNC would wipe the content
	// before anything is read, so a self-copy has to be an error.
	if dfi, err := os.Stat(dst); err == nil && os.SameFile(fi, dfi) {
		return errors.Errorf("%s and %s are the same file", src, dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
