package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/knowgraph/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			watch, _ := cmd.Flags().GetBool("watch")
			return c.app.Serve(cmd.Context(), app.ServeOptions{
				Addr:  addr,
				Watch: watch,
			})
		},
	}
	cmd.Flags().String("addr", "", "Listen address (defaults to the configured http.addr)")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild the graph when templates change")
	return cmd
}
