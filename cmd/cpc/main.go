// The cpc command copies SRC to DST by dispatching to curl or rsync,
// with optional archive extraction (cpx names) and single-child
// directory flattening (names ending in d). One binary serves cpc,
// cpcd, cpx and cpxd.
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/walteh/cpc/pkg/execx"
	"github.com/walteh/cpc/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

// setupLogging configures zerolog for terminal output
func setupLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

func main() {
	// Setup logging
	setupLogging()
	ctx := log.Logger.WithContext(context.Background())

	// Create user logger
	userLogger := ui.NewUserLogger(ctx)

	progName := filepath.Base(os.Args[0])
	rootCmd := newRootCmd(progName, userLogger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogResult(false, "Copy failed", err)

		// A failed external tool decides the exit code; everything
		// else (bad usage, extraction precondition) is 1.
		var exitErr *execx.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
