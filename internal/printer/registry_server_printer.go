package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/output"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

var _ output.Printer[registry.Server] = (*RegistryServerPrinter)(nil)

// RegistryServerPrinter prints the summary of registry entries returned by list and search.
type RegistryServerPrinter struct {
	headerFunc output.WriteFunc[registry.Server]
	footerFunc output.WriteFunc[registry.Server]
}

func NewRegistryServerPrinter() *RegistryServerPrinter {
	return &RegistryServerPrinter{
		headerFunc: DefaultRegistryHeader(),
		footerFunc: DefaultRegistryFooter(),
	}
}

func DefaultRegistryHeader() output.WriteFunc[registry.Server] {
	return func(w io.Writer, _ int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "📦 MCP registry servers...")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "────────────────────────────────────────────")
	}
}

func DefaultRegistryFooter() output.WriteFunc[registry.Server] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintf(w, "Total: %d server%s\n", count, plural(count))
	}
}

// NextCursorFooter extends the default footer with a hint for fetching the next page.
func NextCursorFooter(cursor string) output.WriteFunc[registry.Server] {
	base := DefaultRegistryFooter()
	return func(w io.Writer, count int) {
		base(w, count)
		if cursor != "" {
			_, _ = fmt.Fprintf(w, "For more results, run with --cursor=%s\n", cursor)
		}
	}
}

func (p *RegistryServerPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *RegistryServerPrinter) SetHeader(fn output.WriteFunc[registry.Server]) {
	p.headerFunc = fn
}

// Item outputs the name, ID and description of an entry.
func (p *RegistryServerPrinter) Item(w io.Writer, s registry.Server) error {
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintf(w, "  🆔 %s\n", s.Name)
	_, _ = fmt.Fprintf(w, "  ID: %s\n", s.ID)
	if d := strings.TrimSpace(s.Description); d != "" {
		_, _ = fmt.Fprintf(w, "  Description: %s\n", d)
	}

	return nil
}

func (p *RegistryServerPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *RegistryServerPrinter) SetFooter(fn output.WriteFunc[registry.Server]) {
	p.footerFunc = fn
}

var _ output.Printer[registry.Server] = (*ServerDetailPrinter)(nil)

// ServerDetailPrinter prints everything the registry knows about one entry.
type ServerDetailPrinter struct {
	headerFunc output.WriteFunc[registry.Server]
	footerFunc output.WriteFunc[registry.Server]
}

func (p *ServerDetailPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ServerDetailPrinter) SetHeader(fn output.WriteFunc[registry.Server]) {
	p.headerFunc = fn
}

func (p *ServerDetailPrinter) Item(w io.Writer, s registry.Server) error {
	_, _ = fmt.Fprintf(w, "🆔 %s\n", s.Name)
	_, _ = fmt.Fprintf(w, "ID: %s\n", s.ID)
	if d := strings.TrimSpace(s.Description); d != "" {
		_, _ = fmt.Fprintf(w, "Description: %s\n", d)
	}

	if s.Repository.URL != "" {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "Repository:")
		_, _ = fmt.Fprintf(w, "  URL: %s\n", s.Repository.URL)
		_, _ = fmt.Fprintf(w, "  Source: %s\n", orNA(s.Repository.Source))
	}

	if s.VersionDetail.Version != "" {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "Version:")
		_, _ = fmt.Fprintf(w, "  Version: %s\n", s.VersionDetail.Version)
		_, _ = fmt.Fprintf(w, "  Release Date: %s\n", orNA(s.VersionDetail.ReleaseDate))
		_, _ = fmt.Fprintf(w, "  Latest: %t\n", s.VersionDetail.IsLatest)
	}

	if len(s.Packages) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Packages:")
	for i, pkg := range s.Packages {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintf(w, "  Package %d: %s\n", i+1, pkg.Name)
		_, _ = fmt.Fprintf(w, "    Registry: %s\n", orNA(pkg.RegistryName))
		_, _ = fmt.Fprintf(w, "    Version: %s\n", orNA(pkg.Version))

		if len(pkg.RuntimeArguments) > 0 {
			_, _ = fmt.Fprintln(w, "    Arguments:")
			for _, a := range pkg.RuntimeArguments {
				_, _ = fmt.Fprintf(w, "      - %s: %s\n", argumentLabel(a), orNA(a.ValueHint))
			}
		}

		if len(pkg.EnvironmentVariables) > 0 {
			_, _ = fmt.Fprintln(w, "    Environment Variables:")
			for _, ev := range pkg.EnvironmentVariables {
				_, _ = fmt.Fprintf(w, "      - %s: %s\n", ev.Name, orNA(ev.Description))
			}
		}
	}

	return nil
}

func (p *ServerDetailPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ServerDetailPrinter) SetFooter(fn output.WriteFunc[registry.Server]) {
	p.footerFunc = fn
}

func argumentLabel(a registry.Argument) string {
	switch {
	case a.Description != "":
		return a.Description
	case a.Name != "":
		return a.Name
	default:
		return a.Type
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
