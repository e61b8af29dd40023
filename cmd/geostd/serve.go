package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/andreiashu/geostd/internal/server"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve standardization over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			std, logger, err := g.open()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			gin.SetMode(gin.ReleaseMode)
			return server.New(std, logger).Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
