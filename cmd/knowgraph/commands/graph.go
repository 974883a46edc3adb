package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <post>",
		Short: "Print the links of one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refresh, _ := cmd.Flags().GetBool("refresh")

			res := c.app.ParseBlogPost(cmd.Context(), args[0], refresh)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}

			summary(cmd.ErrOrStderr(), fmt.Sprintf("%s: %d internal, %d external links",
				res.SourcePost, len(res.InternalLinks), len(res.ExternalLinks)), len(res.ParseErrors))
			return nil
		},
	}
	cmd.Flags().BoolP("refresh", "r", false, "Ignore cached results")
	return cmd
}

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and print the graph of every post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refresh, _ := cmd.Flags().GetBool("refresh")
			return printGraph(cmd, c.app.BuildKnowledgeGraph(cmd.Context(), refresh))
		},
	}
	cmd.Flags().BoolP("refresh", "r", false, "Ignore cached results")
	return cmd
}

func (c *CLI) newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <post>",
		Short: "Print the graph reachable from one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			depth, _ := cmd.Flags().GetInt("depth")
			refresh, _ := cmd.Flags().GetBool("refresh")
			if depth < 1 {
				return zerr.With(domain.ErrInvalidDepth, "depth", depth)
			}
			return printGraph(cmd, c.app.PostGraph(cmd.Context(), args[0], depth, refresh))
		},
	}
	cmd.Flags().IntP("depth", "d", 1, "Number of link hops to follow")
	cmd.Flags().BoolP("refresh", "r", false, "Ignore cached results")
	return cmd
}

func printGraph(cmd *cobra.Command, g *domain.Graph) error {
	if err := writeJSON(cmd.OutOrStdout(), g); err != nil {
		return err
	}
	summary(cmd.ErrOrStderr(), fmt.Sprintf("%d nodes, %d edges", len(g.Nodes), len(g.Edges)), len(g.Errors))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to write output")
	}
	return nil
}

// summary prints a one-line status after the JSON output.
func summary(w io.Writer, msg string, errs int) {
	if errs == 0 {
		icon := lipgloss.NewStyle().Foreground(style.Green).Render(style.Check)
		_, _ = fmt.Fprintf(w, "%s %s\n", icon, msg)
		return
	}

	icon := lipgloss.NewStyle().Foreground(style.Yellow).Render(style.Warning)
	noun := "errors"
	if errs == 1 {
		noun = "error"
	}
	_, _ = fmt.Fprintf(w, "%s %s, %d %s\n", icon, msg, errs, noun)
}
