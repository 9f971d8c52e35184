package cli

import (
	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/internal/server"
)

// serveCommand creates the serve command. It exposes case construction over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the case construction HTTP API",
		Long: `Serve the case construction HTTP API.

Endpoints:
  POST /api/case                      build a case from name + architecture or topology
  POST /api/absolute                  cast a posted case to absolute coordinates
  GET  /api/case/{name}/sketch.svg    schematic view of an architecture or topology

Example:
  topo serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(server.WithLogger(c.Logger))
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
