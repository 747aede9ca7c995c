package cli

import (
	"github.com/spf13/cobra"

	"github.com/RemieJanssen/NetworkGenerators/pkg/server"
)

// serveCommand creates the serve command for the HTTP topology service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated networks over HTTP",
		Long: `Serve generated networks over HTTP.

Endpoints:
  GET /healthz
  GET /network?tips=50&beta=-1.0&reticulations=5&local=0.3&seed=42&format=el

Query parameters mirror the generate flags. The server shuts down
gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
