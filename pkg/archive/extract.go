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

// Package archive extracts a downloaded archive into its final
// destination by delegating to atool.
package archive

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/cpc/pkg/config"
	"github.com/walteh/cpc/pkg/execx"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the extractor
type Options struct {
	// Config supplies the atool path
	Config *config.Config
	// Runner executes the external tool
	Runner execx.Runner
}

// 📦 Extractor unpacks one archive file into a destination directory.
type Extractor struct {
	cfg    *config.Config
	runner execx.Runner
}

// 🏭 New creates a new extractor with the given options
func New(opts Options) (*Extractor, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Runner == nil {
		return nil, errors.Errorf("runner is required")
	}
	return &Extractor{
		cfg:    opts.Config,
		runner: opts.Runner,
	}, nil
}

// 🎯 Extract unpacks archivePath into dst. The transport must have
// left a regular file at archivePath; anything else fails before the
// tool is invoked.
func (e *Extractor) Extract(ctx context.Context, archivePath, dst string) error {
	fi, err := os.Stat(archivePath)
	if err != nil {
		return errors.Errorf("copied file is not valid: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return errors.Errorf("copied file is not valid: %s is %s", archivePath, fi.Mode())
	}

	zerolog.Ctx(ctx).Debug().
		Str("archive", archivePath).
		Str("dst", dst).
		Msg("extracting archive")

	return e.runner.Run(ctx, []string{e.cfg.AtoolPath, archivePath, "--extract-to", dst})
}
