package printer

import (
	"fmt"
	"io"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/output"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/install"
)

var _ output.Printer[install.Outcome] = (*OutcomePrinter)(nil)

// OutcomePrinter prints the result of installing each entry of a batch.
type OutcomePrinter struct {
	headerFunc output.WriteFunc[install.Outcome]
	footerFunc output.WriteFunc[install.Outcome]
}

func NewOutcomePrinter() *OutcomePrinter {
	return &OutcomePrinter{
		headerFunc: func(w io.Writer, count int) {
			_, _ = fmt.Fprintf(w, "🔧 Installing %d server%s...\n", count, plural(count))
			_, _ = fmt.Fprintln(w, "")
		},
	}
}

// TallyFooter summarises how many entries of a batch were installed.
func TallyFooter(t install.Tally) output.WriteFunc[install.Outcome] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintf(w, "Installed %d of %d server%s\n", len(t.Installed), count, plural(count))
	}
}

func (p *OutcomePrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *OutcomePrinter) SetHeader(fn output.WriteFunc[install.Outcome]) {
	p.headerFunc = fn
}

func (p *OutcomePrinter) Item(w io.Writer, o install.Outcome) error {
	if o.Error != "" {
		_, _ = fmt.Fprintf(w, "  ❌ %s: %s\n", o.Name, o.Error)
		return nil
	}

	_, _ = fmt.Fprintf(w, "  ✅ %s (installed as '%s')\n", o.Name, o.Config.Name)
	for _, name := range o.Config.EnvNames() {
		if o.Config.Env[name] == "" {
			_, _ = fmt.Fprintf(w, "     ⚠️ %s has no value, set it in settings.json before starting the server\n", name)
		}
	}

	return nil
}

func (p *OutcomePrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *OutcomePrinter) SetFooter(fn output.WriteFunc[install.Outcome]) {
	p.footerFunc = fn
}
