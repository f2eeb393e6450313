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

package transport_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cpc/pkg/config"
	"github.com/walteh/cpc/pkg/execx"
	"github.com/walteh/cpc/pkg/testutils"
	"github.com/walteh/cpc/pkg/transport"
	"gitlab.com/tozd/go/errors"
)

// 🧪 createTestEnv creates a transfer backed by a fake runner
func createTestEnv(t *testing.T, cfg *config.Config) (context.Context, *transport.Transfer, *testutils.FakeRunner) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	runner := &testutils.FakeRunner{}
	tr, err := transport.New(transport.Options{Config: cfg, Runner: runner})
	require.NoError(t, err)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background()), tr, runner
}

// 🧪 TestNewValidation tests required options
func TestNewValidation(t *testing.T) {
	_, err := transport.New(transport.Options{Runner: &testutils.FakeRunner{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")

	_, err = transport.New(transport.Options{Config: config.Default()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner is required")
}

// 🧪 TestCopyHTTPToDirectory tests --output-dir mode for an existing
// directory destination
func TestCopyHTTPToDirectory(t *testing.T) {
	ctx, tr, runner := createTestEnv(t, nil)
	dst := t.TempDir()

	err := tr.Copy(ctx, "https://example.com/file.tar.gz", dst, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"curl", "-OJL", "https://example.com/file.tar.gz", "--output-dir", dst,
	}, runner.LastCall())
}

// 🧪 TestCopyHTTPToFile tests exact-path mode for a non-directory
// destination
func TestCopyHTTPToFile(t *testing.T) {
	ctx, tr, runner := createTestEnv(t, nil)

	err := tr.Copy(ctx, "http://example.com/a.iso", "./out.iso", []string{"--fail"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"curl", "-L", "http://example.com/a.iso", "-o", "./out.iso", "--fail",
	}, runner.LastCall())
}

// 🧪 TestCopyRemote tests the rsync argv for a remote source
func TestCopyRemote(t *testing.T) {
	ctx, tr, runner := createTestEnv(t, nil)

	err := tr.Copy(ctx, "host:/remote/dir", "./local/", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"rsync", "-a", "--info=progress2", "host:/remote/dir", "./local/",
	}, runner.LastCall())
}

// 🧪 TestCopyRemoteDestination tests that a remote destination also
// selects remote sync
func TestCopyRemoteDestination(t *testing.T) {
	ctx, tr, runner := createTestEnv(t, nil)

	err := tr.Copy(ctx, "./local/file", "deploy@host:/srv/", nil)
	require.NoError(t, err)
	assert.Contains(t, runner.LastCall(), "--info=progress2")
}

// 🧪 TestCopyLocal tests the rsync argv for two local paths
func TestCopyLocal(t *testing.T) {
	ctx, tr, runner := createTestEnv(t, nil)

	err := tr.Copy(ctx, "./a", "/tmp/b", []string{"--delete"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"rsync", "-a", "--delete", "./a", "/tmp/b",
	}, runner.LastCall())
}

// 🧪 TestCopyConfiguredTools tests tool paths, default opts and
// excludes from config
func TestCopyConfiguredTools(t *testing.T) {
	cfg := &config.Config{
		CurlPath:  "/opt/curl",
		RsyncPath: "/opt/rsync",
		CurlOpts:  []string{"--retry", "3"},
		RsyncOpts: []string{"--partial"},
		Exclude:   []string{"*.tmp", "**/.git"},
	}
	require.NoError(t, cfg.Validate())
	ctx, tr, runner := createTestEnv(t, cfg)

	err := tr.Copy(ctx, "host:/x", "./y", []string{"--compress"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/opt/rsync", "-a", "--info=progress2",
		"--exclude", "*.tmp", "--exclude", "**/.git",
		"--partial", "--compress",
		"host:/x", "./y",
	}, runner.LastCall())

	err = tr.Copy(ctx, "https://example.com/a", "./a.bin", []string{"--silent"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/opt/curl", "-L", "https://example.com/a", "-o", "./a.bin",
		"--retry", "3", "--silent",
	}, runner.LastCall())
}

// 🧪 TestCopyPropagatesExitError tests that tool failures pass through
// untouched
func TestCopyPropagatesExitError(t *testing.T) {
	ctx, tr, runner := createTestEnv(t, nil)
	runner.Err = &execx.ExitError{Argv: []string{"rsync"}, Code: 12}

	err := tr.Copy(ctx, "./a", "./b", nil)
	require.Error(t, err)

	var exitErr *execx.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 12, exitErr.Code)
}
