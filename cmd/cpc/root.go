package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cpc/pkg/config"
	"github.com/walteh/cpc/pkg/execx"
	"github.com/walteh/cpc/pkg/operation"
	"github.com/walteh/cpc/pkg/ui"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
	extract    bool
	dig        bool
)

// modesFromName derives the default extract/dig modes from the name
// the binary was invoked as: a cpx prefix turns on extraction, a
// trailing d turns on dig. Flags can override either independently.
func modesFromName(progName string) (extract, dig bool) {
	return strings.HasPrefix(progName, "cpx"), strings.HasSuffix(progName, "d")
}

// splitArgs carves the positionals into SRC, DST (defaulting to the
// current directory) and the verbatim remainder for the transport tool.
func splitArgs(args []string) (src, dst string, extraOpts []string) {
	src = args[0]
	dst = "./"
	if len(args) > 1 {
		dst = args[1]
	}
	if len(args) > 2 {
		extraOpts = args[2:]
	}
	return src, dst, extraOpts
}

// newRootCmd builds the command for the given invocation name.
func newRootCmd(progName string, userLogger *ui.UserLogger) *cobra.Command {
	defaultExtract, defaultDig := modesFromName(progName)

	cmd := &cobra.Command{
		Use:   progName + " [flags] SRC [DST] [EXTRA_OPTS...]",
		Short: "Copy files from SRC to DST with optional arguments",
		Long: `cpc copies SRC to DST, picking the mechanism from the argument shapes:
an http/https/ftp URL is downloaded with curl, a [user@]host:path on
either side syncs with rsync, and anything else is a local rsync.
Arguments after DST are passed to the underlying tool unmodified.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			op, err := operation.NewCopyOperation(operation.Options{
				Config:     cfg,
				Runner:     execx.New(),
				UserLogger: userLogger,
			})
			if err != nil {
				return errors.Errorf("creating operation: %w", err)
			}

			src, dst, extraOpts := splitArgs(args)
			if err := op.Execute(ctx, operation.Request{
				Source:      src,
				Destination: dst,
				ExtraOpts:   extraOpts,
				Extract:     extract,
				Dig:         dig,
			}); err != nil {
				return err
			}

			userLogger.LogResult(true, "Copied "+src, nil)
			return nil
		},
	}

	// Everything after the first positional belongs to the transport
	// tool, so stop flag parsing there.
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "rc-file path (default: discover .cpcrc.* in the working directory)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVarP(&extract, "extract", "x", defaultExtract, "treat the copied file as an archive and unpack it into DST")
	cmd.Flags().BoolVar(&dig, "dig", defaultDig, "flatten single-entry directory chains under DST afterwards")

	return cmd
}
