package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joaomdsc/pdflayer/internal/config"
	"github.com/joaomdsc/pdflayer/internal/xlog"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	blockSize    int
	strict       bool
	logLevel     string
	maxWorkers   int
	maxXrefItems int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pdflayer",
		Short:         "Inspect the lexical and object layers of a PDF file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(flags.logLevel)
		},
	}

	cmd.PersistentFlags().IntVar(&flags.blockSize, "block-size", 0, "byte-source read block size (0 = default)")
	cmd.PersistentFlags().BoolVar(&flags.strict, "strict", false, "abort on the first Error token/object instead of logging and continuing")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error, or off")
	cmd.PersistentFlags().IntVar(&flags.maxWorkers, "max-workers", 0, "scan: bounded worker pool width (0 = default)")
	cmd.PersistentFlags().IntVar(&flags.maxXrefItems, "max-xref-entries", 0, "sanity cap on total xref entries (0 = default)")

	cmd.AddCommand(
		newTokensCmd(flags),
		newObjectsCmd(flags),
		newXrefCmd(flags),
		newScanCmd(flags),
	)

	return cmd
}

func (f *rootFlags) buildConfig() (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if f.blockSize > 0 {
		cfg.BlockSize = f.blockSize
	}
	if f.maxWorkers > 0 {
		cfg.MaxConcurrentFiles = f.maxWorkers
	}
	if f.maxXrefItems > 0 {
		cfg.MaxXRefEntries = f.maxXrefItems
	}
	cfg.StrictMode = f.strict
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(level string) error {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "off":
		xlog.SetLogger(nil)
		return nil
	default:
		return fmt.Errorf("unknown --log-level %q", level)
	}
	xlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
