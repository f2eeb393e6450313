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

// Package operation composes one cpc invocation: transport, then
// optional extraction, then optional spill.
package operation

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/cpc/pkg/archive"
	"github.com/walteh/cpc/pkg/config"
	"github.com/walteh/cpc/pkg/execx"
	"github.com/walteh/cpc/pkg/spill"
	"github.com/walteh/cpc/pkg/transport"
	"github.com/walteh/cpc/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

// 📨 Request is one copy invocation, built once from the command line
// and immutable afterwards.
type Request struct {
	// Source is a URL, [user@]host:path, or local path.
	Source string
	// Destination defaults to the current directory when empty.
	Destination string
	// ExtraOpts are forwarded verbatim to the transport tool.
	ExtraOpts []string
	// Extract unpacks the copied archive into Destination.
	Extract bool
	// Dig flattens single-entry directory chains afterwards.
	Dig bool
}

// 🔧 Options contains configuration for the copy operation
type Options struct {
	// Config supplies tool paths and default flags
	Config *config.Config
	// Runner executes external tools
	Runner execx.Runner
	// UserLogger feeds progress to the terminal; nil disables it
	UserLogger *ui.UserLogger
}

// 🎮 CopyOperation runs one request end to end.
type CopyOperation struct {
	cfg    *config.Config
	runner execx.Runner
	user   *ui.UserLogger
}

// 🏭 NewCopyOperation creates a copy operation with the given options
func NewCopyOperation(opts Options) (*CopyOperation, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Runner == nil {
		return nil, errors.Errorf("runner is required")
	}
	return &CopyOperation{
		cfg:    opts.Config,
		runner: opts.Runner,
		user:   opts.UserLogger,
	}, nil
}

// echoRunner announces each command to the user before delegating.
type echoRunner struct {
	user *ui.UserLogger
	next execx.Runner
}

func (r *echoRunner) Run(ctx context.Context, argv []string) error {
	if r.user != nil {
		r.user.LogCommand(argv)
	}
	return r.next.Run(ctx, argv)
}

// 🎯 Execute performs the copy. When extraction is requested the
// transport writes to a temporary path and the real destination is
// only used by the extractor; the temporary path is removed on every
// way out.
func (op *CopyOperation) Execute(ctx context.Context, req Request) error {
	logger := zerolog.Ctx(ctx)

	dst := req.Destination
	if dst == "" {
		dst = "./"
	}

	runner := &echoRunner{user: op.user, next: op.runner}

	tr, err := transport.New(transport.Options{Config: op.cfg, Runner: runner})
	if err != nil {
		return errors.Errorf("creating transport: %w", err)
	}

	transportDst := dst
	var tmpArchive string
	if req.Extract {
		f, err := os.CreateTemp("", "cpc-archive-*")
		if err != nil {
			return errors.Errorf("creating temp file: %w", err)
		}
		tmpArchive = f.Name()
		if err := f.Close(); err != nil {
			return errors.Errorf("closing temp file: %w", err)
		}
		// Reserve only the name; the transport tool creates the file,
		// exactly as it would the real destination.
		if err := os.Remove(tmpArchive); err != nil {
			return errors.Errorf("unlinking temp file: %w", err)
		}
		defer func() {
			// Cleanup is best-effort and must run on every exit path.
			if err := os.RemoveAll(tmpArchive); err != nil {
				logger.Warn().Err(err).Str("path", tmpArchive).Msg("removing temp archive")
			}
		}()
		transportDst = tmpArchive
	}

	if err := tr.Copy(ctx, req.Source, transportDst, req.ExtraOpts); err != nil {
		return errors.Errorf("copying %s: %w", req.Source, err)
	}

	if req.Extract {
		ex, err := archive.New(archive.Options{Config: op.cfg, Runner: runner})
		if err != nil {
			return errors.Errorf("creating extractor: %w", err)
		}
		if op.user != nil {
			op.user.LogStep("Extracting archive to " + dst)
		}
		if err := ex.Extract(ctx, tmpArchive, dst); err != nil {
			return errors.Errorf("extracting archive: %w", err)
		}
	}

	if req.Dig {
		if op.user != nil {
			op.user.LogStep("Spilling " + dst)
		}
		if err := spill.Spill(ctx, dst); err != nil {
			return errors.Errorf("spilling %s: %w", dst, err)
		}
	}

	return nil
}
