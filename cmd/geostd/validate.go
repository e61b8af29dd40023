package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/geostd"
)

func newValidateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the snapshot standardizes onto itself",
		RunE: func(cmd *cobra.Command, args []string) error {
			std, logger, err := g.open()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			report, verr := geostd.Validate(std)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return eris.Wrap(err, "encoding report")
			}
			if verr != nil {
				return verr
			}
			logger.Info("snapshot valid",
				zap.Int("countries", report.Countries),
				zap.Int("states", report.States),
				zap.Int("cities", report.Cities))
			return nil
		},
	}
}
