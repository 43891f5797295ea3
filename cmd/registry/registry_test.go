package registry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/cmdtest"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/install"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
	mcpreg "github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

type newCmdFunc func(*internalcmd.BaseCmd, ...cmdopts.CmdOption) (*cobra.Command, error)

func execute(t *testing.T, fn newCmdFunc, opts []cmdopts.CmdOption, args ...string) (string, string, error) {
	t.Helper()

	c, err := fn(&internalcmd.BaseCmd{}, opts...)
	require.NoError(t, err)
	c.SilenceUsage = true
	c.SilenceErrors = true

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetArgs(args)

	err = c.Execute()
	return out.String(), errOut.String(), err
}

func TestNewCmd(t *testing.T) {
	t.Parallel()

	c, err := NewCmd(&internalcmd.BaseCmd{})
	require.NoError(t, err)

	names := map[string]bool{}
	for _, sub := range c.Commands() {
		names[sub.Name()] = true
	}
	require.Equal(t, map[string]bool{"install": true, "list": true, "search": true, "show": true}, names)
}

func TestListCmd(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	opts := cmdtest.Options("settings.json", reg, nil)

	out, _, err := execute(t, NewListCmd, opts, "--limit", "1")
	require.NoError(t, err)
	require.Contains(t, out, "io.github.github/github-mcp-server")
	require.NotContains(t, out, "io.github.redis/mcp-redis")
	require.Contains(t, out, "--cursor=1")

	out, _, err = execute(t, NewListCmd, opts, "--limit", "1", "--cursor", "1")
	require.NoError(t, err)
	require.Contains(t, out, "io.github.redis/mcp-redis")
	require.NotContains(t, out, "--cursor=")
}

func TestListCmd_JSONKeepsCursor(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	out, _, err := execute(t, NewListCmd, cmdtest.Options("settings.json", reg, nil), "--limit", "1", "--format", "json")
	require.NoError(t, err)

	var payload struct {
		Result mcpreg.ListResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Result.Servers, 1)
	require.Equal(t, "1", payload.Result.Metadata.NextCursor)
}

func TestListCmd_RegistryUnavailable(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Err: errors.ErrRegistryUnavailable}
	out, _, err := execute(t, NewListCmd, cmdtest.Options("settings.json", reg, nil), "--format", "json")
	require.ErrorIs(t, err, errors.ErrRegistryUnavailable)
	require.Contains(t, out, `"error"`)
}

func TestSearchCmd(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	opts := cmdtest.Options("settings.json", reg, nil)

	tests := []struct {
		name    string
		query   string
		want    string
		notWant string
	}{
		{name: "description substring", query: "redis", want: "io.github.redis/mcp-redis", notWant: "github-mcp-server"},
		{name: "exact name ignoring case", query: "IO.GITHUB.GITHUB/GITHUB-MCP-SERVER", want: "gh-1"},
		{name: "no match", query: "kubernetes", want: "No servers found matching 'kubernetes'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, _, err := execute(t, NewSearchCmd, opts, tc.query)
			require.NoError(t, err)
			require.Contains(t, out, tc.want)
			if tc.notWant != "" {
				require.NotContains(t, out, tc.notWant)
			}
		})
	}
}

func TestShowCmd(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	opts := cmdtest.Options("settings.json", reg, nil)

	out, _, err := execute(t, NewShowCmd, opts, "gh-1")
	require.NoError(t, err)
	require.Contains(t, out, "ID: gh-1\n")
	require.Contains(t, out, "GITHUB_PERSONAL_ACCESS_TOKEN: GitHub token")

	_, _, err = execute(t, NewShowCmd, opts, "nope")
	require.ErrorIs(t, err, errors.ErrServerNotFound)
}

func TestInstallCmd(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	ed := &cmdtest.Editor{}

	out, _, err := execute(t, NewInstallCmd, cmdtest.Options("settings.json", reg, ed), "--by-id", "redis-1", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "io.github.redis/mcp-redis (installed as 'mcp-redis')")

	require.Len(t, ed.Installed, 1)
	require.Equal(t, "mcp-redis", ed.Installed[0].Name)
	require.Equal(t, "npx", ed.Installed[0].Command)
	require.Equal(t, []string{"@redis/mcp-redis"}, ed.Installed[0].Args)
}

func TestInstallCmd_PromptsForEnv(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	ed := &cmdtest.Editor{}
	p := &recordingPrompter{value: "ghp_secret", confirm: true}

	opts := append(cmdtest.Options("settings.json", reg, ed), cmdopts.WithPrompter(p))
	out, errOut, err := execute(t, NewInstallCmd, opts, "official", "--format", "json")
	require.NoError(t, err)

	require.Equal(t, []bool{true}, p.secret)
	require.Equal(t, 1, p.confirms)
	require.Contains(t, errOut, "VS Code configuration:")
	require.NotContains(t, errOut, "ghp_secret")

	require.Len(t, ed.Installed, 1)
	require.Equal(t, "ghp_secret", ed.Installed[0].Env["GITHUB_PERSONAL_ACCESS_TOKEN"])

	var payload struct {
		Result install.Outcome `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "***", payload.Result.Config.Env["GITHUB_PERSONAL_ACCESS_TOKEN"])
}

func TestInstallCmd_Cancelled(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	ed := &cmdtest.Editor{}
	p := &recordingPrompter{confirm: false}

	opts := append(cmdtest.Options("settings.json", reg, ed), cmdopts.WithPrompter(p))
	_, errOut, err := execute(t, NewInstallCmd, opts, "--by-id", "redis-1")
	require.NoError(t, err)
	require.Contains(t, errOut, "Installation cancelled")
	require.Empty(t, ed.Installed)
}

func TestInstallCmd_Ambiguous(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	ed := &cmdtest.Editor{}

	// Both descriptions now mention GitHub.
	reg.Servers[1].Description = "Redis server, like GitHub's"
	_, errOut, err := execute(t, NewInstallCmd, cmdtest.Options("settings.json", reg, ed), "github", "--yes")

	var ambiguous *errors.AmbiguousIdentifierError
	require.ErrorAs(t, err, &ambiguous)
	require.Len(t, ambiguous.Candidates, 2)
	require.Contains(t, errOut, "Please use --by-id")
	require.Empty(t, ed.Installed)
}

func TestInstallCmd_NotFound(t *testing.T) {
	t.Parallel()

	reg := &cmdtest.Registry{Servers: cmdtest.Servers()}
	_, _, err := execute(t, NewInstallCmd, cmdtest.Options("settings.json", reg, &cmdtest.Editor{}), "kubernetes", "--yes")
	require.ErrorIs(t, err, errors.ErrServerNotFound)
}

var _ prompt.Prompter = (*recordingPrompter)(nil)

type recordingPrompter struct {
	value    string
	confirm  bool
	secret   []bool
	confirms int
}

func (p *recordingPrompter) Input(_ string, _ string, _ string, secret bool) (string, error) {
	p.secret = append(p.secret, secret)
	return p.value, nil
}

func (p *recordingPrompter) Confirm(string) (bool, error) {
	p.confirms++
	return p.confirm, nil
}
