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

package transport

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/cpc/pkg/classify"
	"github.com/walteh/cpc/pkg/config"
	"github.com/walteh/cpc/pkg/execx"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the transfer
type Options struct {
	// Config supplies tool paths and default flags
	Config *config.Config
	// Runner executes the external tool
	Runner execx.Runner
}

// 🚚 Transfer copies a source to a destination by invoking the
// external tool matching the pair's classification.
type Transfer struct {
	cfg    *config.Config
	runner execx.Runner
}

// 🏭 New creates a new transfer with the given options
func New(opts Options) (*Transfer, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Runner == nil {
		return nil, errors.Errorf("runner is required")
	}
	return &Transfer{
		cfg:    opts.Config,
		runner: opts.Runner,
	}, nil
}

// 🎯 Copy moves src to dst, splicing extraOpts into the tool's argv.
// Failures from the tool come back as *execx.ExitError carrying the
// tool's own exit code.
func (t *Transfer) Copy(ctx context.Context, src, dst string, extraOpts []string) error {
	selected := classify.Pick(src, dst)
	zerolog.Ctx(ctx).Debug().
		Str("src", src).
		Str("dst", dst).
		Stringer("transport", selected).
		Msg("transport selected")

	var argv []string
	switch selected {
	case classify.TransportHTTP:
		argv = t.curlArgv(src, dst, extraOpts)
	case classify.TransportRemote:
		argv = t.rsyncArgv(src, dst, extraOpts, true)
	default:
		argv = t.rsyncArgv(src, dst, extraOpts, false)
	}

	return t.runner.Run(ctx, argv)
}

// curlArgv builds the download command. An existing directory
// destination switches curl into --output-dir mode so the
// server-suggested filename is honored.
func (t *Transfer) curlArgv(src, dst string, extraOpts []string) []string {
	var argv []string
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		argv = []string{t.cfg.CurlPath, "-OJL", src, "--output-dir", dst}
	} else {
		argv = []string{t.cfg.CurlPath, "-L", src, "-o", dst}
	}
	argv = append(argv, t.cfg.CurlOpts...)
	return append(argv, extraOpts...)
}

// rsyncArgv builds the sync command. Remote syncs additionally ask for
// human-readable whole-transfer progress. Extra options go before the
// positional src/dst pair.
func (t *Transfer) rsyncArgv(src, dst string, extraOpts []string, remote bool) []string {
	argv := []string{t.cfg.RsyncPath, "-a"}
	if remote {
		argv = append(argv, "--info=progress2")
	}
	for _, pattern := range t.cfg.Exclude {
		argv = append(argv, "--exclude", pattern)
	}
	argv = append(argv, t.cfg.RsyncOpts...)
	argv = append(argv, extraOpts...)
	return append(argv, src, dst)
}
