// Command geostd standardizes the geographic fields of contact records
// against a reference snapshot.
//
// Usage:
//
//	geostd standardize --snapshot ./snapshot --input in.jsonl --output out.jsonl
//	geostd serve --snapshot ./snapshot.db --addr :8080
//	geostd validate --snapshot ./snapshot
//	geostd convert --snapshot ./snapshot --to ./snapshot.db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/geostd"
)

type globalOptions struct {
	snapshot string
	config   string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalOptions

	root := &cobra.Command{
		Use:           "geostd",
		Short:         "Standardize country, state and city fields of records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.snapshot, "snapshot", "", "Snapshot directory, or SQLite file (.db, .sqlite, .sqlite3) (required)")
	root.PersistentFlags().StringVar(&g.config, "config", "", "YAML config file (default: built-in defaults)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	_ = root.MarkPersistentFlagRequired("snapshot")

	root.AddCommand(newStandardizeCmd(&g), newServeCmd(&g), newValidateCmd(&g), newConvertCmd(&g))
	return root
}

// newLogger writes to stderr; stdout carries command output.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid --log-level %q", level)
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

// open builds the logger, config, store and standardizer named by the
// global flags.
func (g *globalOptions) open() (*geostd.Standardizer, *zap.Logger, error) {
	logger, err := newLogger(g.logLevel)
	if err != nil {
		return nil, nil, err
	}

	cfg := geostd.DefaultConfig()
	if g.config != "" {
		if cfg, err = geostd.LoadConfig(g.config); err != nil {
			return nil, nil, err
		}
	}

	store, err := geostd.Load(g.snapshot, geostd.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	std, err := geostd.New(store, geostd.WithConfig(cfg), geostd.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return std, logger, nil
}
