// Package commands implements the CLI commands for knowgraph.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/knowgraph/internal/app"
	"go.trai.ch/knowgraph/internal/build"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	logFormatPretty = "pretty"
	logFormatJSON   = "json"
)

// CLI represents the command line interface for knowgraph.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	ParseBlogPost(ctx context.Context, templateName string, forceRefresh bool) domain.ParseResult
	BuildKnowledgeGraph(ctx context.Context, forceRefresh bool) *domain.Graph
	PostGraph(ctx context.Context, templateName string, depth int, forceRefresh bool) *domain.Graph
	Serve(ctx context.Context, opts app.ServeOptions) error
	Clean(ctx context.Context) error
	EnableTracing()
	SetLogJSON(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "knowgraph",
		Short:         "Build a knowledge graph from the links between blog posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("log-format", logFormatPretty, "Log format: pretty or json")
	rootCmd.PersistentFlags().Bool("trace", false, "Log a line for every finished span")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newParseCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPostCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case logFormatPretty:
		c.app.SetLogJSON(false)
	case logFormatJSON:
		c.app.SetLogJSON(true)
	default:
		return zerr.With(domain.ErrInvalidLogFormat, "format", format)
	}

	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		c.app.EnableTracing()
	}
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
