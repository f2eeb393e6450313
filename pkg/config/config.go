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

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is the optional rc-file for cpc. Everything has a working
// default; the file only exists to pin tool paths, add always-on flags
// for a transport, or exclude paths from sync copies.
type Config struct {
	CurlPath  string   `json:"curl_path,omitempty" yaml:"curl_path,omitempty"`   // curl binary, default "curl"
	RsyncPath string   `json:"rsync_path,omitempty" yaml:"rsync_path,omitempty"` // rsync binary, default "rsync"
	AtoolPath string   `json:"atool_path,omitempty" yaml:"atool_path,omitempty"` // atool binary, default "atool"
	CurlOpts  []string `json:"curl_opts,omitempty" yaml:"curl_opts,omitempty"`   // default extra flags for downloads
	RsyncOpts []string `json:"rsync_opts,omitempty" yaml:"rsync_opts,omitempty"` // default extra flags for syncs
	Exclude   []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`       // glob patterns forwarded as rsync --exclude
}

// rcNames are the files Load discovers in the working directory, in
// preference order.
var rcNames = []string{".cpcrc.hcl", ".cpcrc.yaml", ".cpcrc.yml", ".cpcrc.json"}

// 🏭 Default returns the configuration used when no rc-file exists.
func Default() *Config {
	return &Config{
		CurlPath:  "curl",
		RsyncPath: "rsync",
		AtoolPath: "atool",
	}
}

// 🎯 Load loads the configuration. With an empty path, it discovers an
// rc-file in the working directory and falls back to Default when none
// is present. An explicit path that can't be read is an error.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		found, err := discover(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			logger.Debug().Msg("no rc-file found, using defaults")
			return Default(), nil
		}
		path = found
	}
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// discover returns the first rc-file present in dir, or "".
func discover(dir string) (string, error) {
	for _, name := range rcNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !os.IsNotExist(err) {
			return "", errors.Errorf("checking for %s: %w", candidate, err)
		}
	}
	return "", nil
}

// 🔍 Validate checks the configuration and fills in tool defaults.
func (cfg *Config) Validate() error {
	if cfg.CurlPath == "" {
		cfg.CurlPath = "curl"
	}
	if cfg.RsyncPath == "" {
		cfg.RsyncPath = "rsync"
	}
	if cfg.AtoolPath == "" {
		cfg.AtoolPath = "atool"
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	return nil
}
