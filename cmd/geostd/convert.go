package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/geostd"
)

func newConvertCmd(g *globalOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Copy the snapshot into another format",
		Long: `Reads --snapshot, checks that it loads, and writes it to --to. A --to
ending in .db, .sqlite or .sqlite3 is written as SQLite; anything else is a
gob directory. Compress a gob directory afterwards with

	bzip2 -f DIR/*.dmp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(g.logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			snap, err := geostd.ReadSnapshotAt(g.snapshot)
			if err != nil {
				return err
			}
			if _, err := geostd.NewStore(snap, geostd.WithLogger(logger)); err != nil {
				return err
			}
			if _, err := os.Stat(to); err == nil {
				return eris.Errorf("%s already exists", to)
			}
			if err := geostd.WriteSnapshotAt(to, snap); err != nil {
				return err
			}
			logger.Info("snapshot converted",
				zap.String("from", g.snapshot),
				zap.String("to", to),
				zap.Int("countries", len(snap.Countries)),
				zap.Int("states", len(snap.States)),
				zap.Int("cities", len(snap.Cities)))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Destination directory or SQLite file (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
