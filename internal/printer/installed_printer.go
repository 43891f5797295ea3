package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/output"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

var _ output.Printer[service.InstalledServer] = (*InstalledServerPrinter)(nil)

// InstalledServerPrinter prints the MCP servers found in the settings file.
type InstalledServerPrinter struct {
	headerFunc output.WriteFunc[service.InstalledServer]
	footerFunc output.WriteFunc[service.InstalledServer]
	details    bool
}

// NewInstalledServerPrinter returns a printer listing identifiers, or full launch configurations when details is set.
func NewInstalledServerPrinter(details bool) *InstalledServerPrinter {
	return &InstalledServerPrinter{
		headerFunc: DefaultInstalledHeader(details),
		footerFunc: DefaultInstalledFooter(),
		details:    details,
	}
}

func DefaultInstalledHeader(details bool) output.WriteFunc[service.InstalledServer] {
	title := "🧩 Installed MCP servers:"
	if details {
		title = "🧩 Installed MCP server configurations:"
	}

	return func(w io.Writer, _ int) {
		_, _ = fmt.Fprintln(w, title)
		_, _ = fmt.Fprintln(w, "")
	}
}

func DefaultInstalledFooter() output.WriteFunc[service.InstalledServer] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintf(w, "Total: %d server%s\n", count, plural(count))
	}
}

func (p *InstalledServerPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *InstalledServerPrinter) SetHeader(fn output.WriteFunc[service.InstalledServer]) {
	p.headerFunc = fn
}

// Item prints one installed server.
func (p *InstalledServerPrinter) Item(w io.Writer, s service.InstalledServer) error {
	if !p.details {
		_, _ = fmt.Fprintf(w, "  - %s\n", s.Identifier)
		return nil
	}

	_, _ = fmt.Fprintf(w, "  %s\n", s.Key)
	_, _ = fmt.Fprintf(w, "    Identifier: %s\n", s.Identifier)
	_, _ = fmt.Fprintf(w, "    Command: %s\n", s.Command)
	if len(s.Args) > 0 {
		_, _ = fmt.Fprintf(w, "    Args: %s\n", strings.Join(s.Args, " "))
	}
	if len(s.Env) > 0 {
		_, _ = fmt.Fprintf(w, "    Env: %s\n", strings.Join(s.Env, ", "))
	}

	return nil
}

func (p *InstalledServerPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *InstalledServerPrinter) SetFooter(fn output.WriteFunc[service.InstalledServer]) {
	p.footerFunc = fn
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
