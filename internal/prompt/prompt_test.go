package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

type call struct {
	title  string
	def    string
	secret bool
}

type scriptedPrompter struct {
	answers map[string]string
	calls   []call
	err     error
}

func (s *scriptedPrompter) Input(title string, _ string, def string, secret bool) (string, error) {
	s.calls = append(s.calls, call{title: title, def: def, secret: secret})
	if s.err != nil {
		return "", s.err
	}
	if v, ok := s.answers[title]; ok {
		return v, nil
	}
	return def, nil
}

func (s *scriptedPrompter) Confirm(string) (bool, error) {
	return true, s.err
}

func TestIsSensitive(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"GITHUB_TOKEN", "client_secret", "API_KEY", "DB_PASSWORD", "PASSPHRASE"} {
		require.True(t, IsSensitive(name), name)
	}
	for _, name := range []string{"REGION", "ENDPOINT", "USER"} {
		require.False(t, IsSensitive(name), name)
	}
}

func TestFillEnv(t *testing.T) {
	t.Parallel()

	cfg := runtime.Config{
		Name:    "tool",
		Command: "docker",
		Args:    []string{"run", "img"},
		Env:     map[string]string{"API_TOKEN": "", "REGION": ""},
	}

	p := &scriptedPrompter{answers: map[string]string{"API_TOKEN (tool)": "s3cr3t"}}
	lookup := func(name string) (string, bool) {
		if name == "REGION" {
			return "eu-west-1", true
		}
		return "", false
	}

	filled, err := FillEnv(cfg, p, lookup, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"API_TOKEN": "s3cr3t", "REGION": "eu-west-1"}, filled.Env)
	require.Equal(t, map[string]string{"API_TOKEN": "", "REGION": ""}, cfg.Env)

	require.Equal(t, []call{
		{title: "API_TOKEN (tool)", def: "", secret: true},
		{title: "REGION (tool)", def: "eu-west-1", secret: false},
	}, p.calls)
}

func TestFillEnv_NoEnv(t *testing.T) {
	t.Parallel()

	cfg := runtime.Config{Name: "tool", Command: "npx", Args: []string{"x"}}
	filled, err := FillEnv(cfg, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, cfg, filled)
}

func TestFillEnv_Error(t *testing.T) {
	t.Parallel()

	cfg := runtime.Config{Name: "tool", Env: map[string]string{"A": ""}}
	_, err := FillEnv(cfg, &scriptedPrompter{err: ErrAborted}, nil, nil)
	require.ErrorIs(t, err, ErrAborted)

	_, err = FillEnv(cfg, nil, nil, nil)
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	v, err := Defaults{}.Input("x", "", "def", true)
	require.NoError(t, err)
	require.Equal(t, "def", v)

	ok, err := Defaults{Answer: true}.Confirm("sure?")
	require.NoError(t, err)
	require.True(t, ok)

	filled, err := FillEnv(
		runtime.Config{Name: "t", Env: map[string]string{"A": ""}},
		Defaults{},
		func(string) (string, bool) { return "", false },
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": ""}, filled.Env)
}
