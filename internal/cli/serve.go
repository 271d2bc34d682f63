package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/httpapi"
	"github.com/mrz1836/customizer/internal/signal"
)

// AddServeCommand adds the serve command.
func AddServeCommand(root *cobra.Command, s *session) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the customization HTTP API",
		Long: `Start the HTTP API used by the browser client.

The server stops gracefully on SIGINT or SIGTERM. GET /metrics exposes
Prometheus metrics and GET /healthz reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := signal.NewHandler(cmd.Context())
			defer h.Stop()
			ctx := h.Context()

			a, err := s.newApp(ctx, withLLM())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			if err := a.store.EnsureLayout(ctx); err != nil {
				return err
			}

			serverCfg := a.cfg.Server
			if addr != "" {
				serverCfg.Addr = addr
			}
			srv := httpapi.New(a.svc, serverCfg,
				httpapi.WithLogger(a.logger.With().Str("component", "http").Logger()),
				httpapi.WithGroups(a.engine),
			)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")

	root.AddCommand(cmd)
}
