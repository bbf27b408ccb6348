package main

import (
	"fcf_analysis/pkg/app"
	"fcf_analysis/pkg/server"

	"github.com/spf13/cobra"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the FCF HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				e.cfg.Server.Addr = addr
			}
			return serve(cmd, e)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

func serve(cmd *cobra.Command, e *env) error {
	a, err := app.New(cmd.Context(), e.cfg, e.logger, app.Options{Quotes: true, Store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	api := server.NewWebAPI(e.logger, server.Config{
		Addr:            e.cfg.Server.Addr,
		ShutdownTimeout: e.cfg.Server.ShutdownTimeout,
		DataRoot:        e.cfg.DataRoot,
		Dependencies: server.Dependencies{
			Analyzer: a.Analyzer,
			Results:  a.Results,
		},
	})
	return api.Start(cmd.Context())
}
