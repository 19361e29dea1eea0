package main

import (
	"github.com/spf13/cobra"

	"github.com/patagonia-pages/bookpage/internal/site"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		port     int
		host     string
		basePath string
		noForm   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Serve the page, its assets and the live WebSocket.

Examples:
  bookpage serve
  bookpage serve --port=3000
  bookpage serve --host=0.0.0.0 --base-path=/Patagonia-Pages/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if basePath != "" {
				cfg.Server.BasePath = basePath
			}
			if noForm {
				cfg.Site.PreorderForm = false
			}
			cfg.Normalize()
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := g.logger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			srv, err := site.New(site.Options{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}

			info(cmd.OutOrStdout(), "Listening on http://%s%s", cfg.Address(), cfg.Server.BasePath)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Path the site is served under")
	cmd.Flags().BoolVar(&noForm, "no-form", false, "Link to the external pre-order form instead of the waitlist form")

	return cmd
}
