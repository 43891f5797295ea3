package printer

import (
	"fmt"
	"io"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/output"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
)

var _ output.Printer[reconcile.Report] = (*ReportPrinter)(nil)

// ReportPrinter prints the outcome of comparing required servers with the installed ones.
type ReportPrinter struct {
	headerFunc output.WriteFunc[reconcile.Report]
	footerFunc output.WriteFunc[reconcile.Report]
}

func (p *ReportPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ReportPrinter) SetHeader(fn output.WriteFunc[reconcile.Report]) {
	p.headerFunc = fn
}

func (p *ReportPrinter) Item(w io.Writer, r reconcile.Report) error {
	if r.AllInstalled() {
		_, _ = fmt.Fprintln(w, "✅ All required MCP servers are installed.")
		return nil
	}

	_, _ = fmt.Fprintln(w, "⚠️ The following MCP servers are not installed:")
	for _, m := range r.Missing {
		if m.Name != "" && m.Name != m.Identifier {
			_, _ = fmt.Fprintf(w, "  - %s (%s)\n", m.Identifier, m.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "  - %s\n", m.Identifier)
	}

	if len(r.Unresolved) > 0 {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "❓ The following identifiers were not found in the registry:")
		for _, u := range r.Unresolved {
			_, _ = fmt.Fprintf(w, "  - %s\n", u)
		}
	}

	return nil
}

func (p *ReportPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ReportPrinter) SetFooter(fn output.WriteFunc[reconcile.Report]) {
	p.footerFunc = fn
}
