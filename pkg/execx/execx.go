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

// Package execx runs external commands on behalf of the transport and
// archive layers. It exists so those layers stay unit-testable: tests
// substitute a fake Runner and assert on the argv they receive.
package execx

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔌 Runner executes one external command synchronously, streaming its
// output, and returns an *ExitError when the command exits non-zero.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ❌ ExitError reports a command that ran and exited non-zero. Code is
// the child's exit code and is what the whole program exits with.
type ExitError struct {
	Argv []string
	Code int
}

// 📝 Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", strings.Join(e.Argv, " "), e.Code)
}

// 🎮 ExecRunner is the real Runner, backed by os/exec. The child's
// stdout and stderr are pumped to Stdout/Stderr so progress output from
// tools like rsync reaches the terminal as it is produced.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// 🏭 New creates an ExecRunner wired to the process's own stdio.
func New() *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// 🏃 Run executes argv and blocks until it finishes.
func (r *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.Errorf("empty command")
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Strs("argv", argv).Msg("executing command")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Errorf("attaching stdout: %w", err)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return errors.Errorf("attaching stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return errors.Errorf("starting %q: %w", argv[0], err)
	}

	grp := new(errgroup.Group)
	grp.Go(func() error {
		_, err := io.Copy(r.Stdout, outPipe)
		return err
	})
	grp.Go(func() error {
		_, err := io.Copy(r.Stderr, errPipe)
		return err
	})
	pumpErr := grp.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Argv: argv, Code: exitErr.ExitCode()}
		}
		return errors.Errorf("waiting for %q: %w", argv[0], err)
	}
	if pumpErr != nil {
		return errors.Errorf("streaming output of %q: %w", argv[0], pumpErr)
	}
	return nil
}
