package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	mcpreg "github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

type SearchCmd struct {
	*internalcmd.BaseCmd
	Format internalcmd.OutputFormat
	opts   cmdopts.CmdOptions
}

func NewSearchCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &SearchCmd{
		BaseCmd: baseCmd,
		Format:  internalcmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Searches the MCP registry for matching servers",
		Long:  c.longDescription(),
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

// longDescription returns the long version of the command description.
func (c *SearchCmd) longDescription() string {
	return `Searches the first page of the MCP registry for servers whose name matches the query exactly,
or whose description contains it. Matching ignores case.`
}

func (c *SearchCmd) run(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])

	p := printer.NewRegistryServerPrinter()
	p.SetHeader(func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "\n🔎 Found %d server%s matching '%s'\n", count, plural(count), query)
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "────────────────────────────────────────────")
	})

	handler, err := internalcmd.NewHandler[mcpreg.Server](c.Format, cmd.OutOrStdout(), p)
	if err != nil {
		return err
	}

	if query == "" {
		return handler.HandleError(fmt.Errorf("query is required and cannot be empty"))
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return handler.HandleError(err)
	}

	results, err := progress.Track(
		c.opts.ProgressFor(cmd.ErrOrStderr()),
		fmt.Sprintf("Searching for '%s'...", query),
		func() ([]mcpreg.Server, error) {
			return session.Registry.Search(cmd.Context(), query)
		},
	)
	if err != nil {
		return handler.HandleError(err)
	}

	if len(results) == 0 && (c.Format == internalcmd.FormatText || c.Format == "") {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No servers found matching '%s'\n", query)
		return nil
	}

	return handler.HandleResults(results...)
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
