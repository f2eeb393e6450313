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

package spill_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cpc/pkg/spill"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// 🧪 TestSpillNestedChain tests a three-level single-entry chain that
// bottoms out at a directory with two files
func TestSpillNestedChain(t *testing.T) {
	parent := t.TempDir()
	dst := filepath.Join(parent, "wrap")
	write(t, filepath.Join(dst, "a", "b", "c", "one.txt"), "one")
	write(t, filepath.Join(dst, "a", "b", "c", "two.txt"), "two")

	require.NoError(t, spill.Spill(testContext(t), dst))

	assert.Equal(t, "one", read(t, filepath.Join(parent, "one.txt")))
	assert.Equal(t, "two", read(t, filepath.Join(parent, "two.txt")))
}

// 🧪 TestSpillSingleFile tests a chain whose lone entry is a file
func TestSpillSingleFile(t *testing.T) {
	parent := t.TempDir()
	dst := filepath.Join(parent, "wrap")
	write(t, filepath.Join(dst, "only.txt"), "payload")

	require.NoError(t, spill.Spill(testContext(t), dst))

	assert.Equal(t, "payload", read(t, filepath.Join(parent, "only.txt")))
	assert.NoFileExists(t, filepath.Join(parent, "wrap", "only.txt"))
}

// 🧪 TestSpillNonDirectory tests that a plain file destination is
// left alone
func TestSpillNonDirectory(t *testing.T) {
	parent := t.TempDir()
	dst := filepath.Join(parent, "file.bin")
	write(t, dst, "data")

	require.NoError(t, spill.Spill(testContext(t), dst))

	assert.Equal(t, "data", read(t, dst))
}

// 🧪 TestSpillMissingPath tests that a nonexistent destination is a
// no-op
func TestSpillMissingPath(t *testing.T) {
	require.NoError(t, spill.Spill(testContext(t), filepath.Join(t.TempDir(), "nope")))
}

// 🧪 TestSpillEmptyDirectory tests the zero-entry merge no-op
func TestSpillEmptyDirectory(t *testing.T) {
	parent := t.TempDir()
	dst := filepath.Join(parent, "empty")
	require.NoError(t, os.Mkdir(dst, 0o755))
	write(t, filepath.Join(parent, "keep.txt"), "kept")

	require.NoError(t, spill.Spill(testContext(t), dst))

	assert.Equal(t, "kept", read(t, filepath.Join(parent, "keep.txt")))
}

// 🧪 TestSpillTrailingSlashDestination tests that a slash-terminated
// destination merges into the real parent instead of into itself
func TestSpillTrailingSlashDestination(t *testing.T) {
	parent := t.TempDir()
	dst := filepath.Join(parent, "local")
	write(t, filepath.Join(dst, "one.txt"), "one")
	write(t, filepath.Join(dst, "two.txt"), "two")

	require.NoError(t, spill.Spill(testContext(t), dst+"/"))

	assert.Equal(t, "one", read(t, filepath.Join(parent, "one.txt")))
	assert.Equal(t, "two", read(t, filepath.Join(parent, "two.txt")))
	assert.Equal(t, "one", read(t, filepath.Join(dst, "one.txt")), "merge source keeps its content")
}

// 🧪 TestSpillCurrentDirectory tests that spilling the working
// directory into itself errors instead of truncating its files
func TestSpillCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "one.txt"), "one")
	write(t, filepath.Join(dir, "two.txt"), "two")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	err = spill.Spill(testContext(t), "./")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same file")
	assert.Equal(t, "one", read(t, filepath.Join(dir, "one.txt")), "self-merge must not truncate")
	assert.Equal(t, "two", read(t, filepath.Join(dir, "two.txt")), "self-merge must not truncate")
}

// 🧪 TestSpillMergeKeepsAndOverwrites tests merge semantics: parent
// entries survive, colliding files are overwritten
func TestSpillMergeKeepsAndOverwrites(t *testing.T) {
	parent := t.TempDir()
	write(t, filepath.Join(parent, "existing.txt"), "existing")
	write(t, filepath.Join(parent, "clash.txt"), "old")

	dst := filepath.Join(parent, "wrap")
	write(t, filepath.Join(dst, "clash.txt"), "new")
	write(t, filepath.Join(dst, "fresh.txt"), "fresh")
	write(t, filepath.Join(dst, "sub", "deep.txt"), "deep")

	require.NoError(t, spill.Spill(testContext(t), dst))

	assert.Equal(t, "existing", read(t, filepath.Join(parent, "existing.txt")))
	assert.Equal(t, "new", read(t, filepath.Join(parent, "clash.txt")))
	assert.Equal(t, "fresh", read(t, filepath.Join(parent, "fresh.txt")))
	assert.Equal(t, "deep", read(t, filepath.Join(parent, "sub", "deep.txt")))
}
