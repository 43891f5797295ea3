package daemon

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemon_NewAPIOptions(t *testing.T) {
	t.Parallel()

	t.Run("default options", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions()
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIShutdownTimeout(), opts.ShutdownTimeout)
		assert.False(t, opts.CORS.Enabled)
		assert.Equal(t, "dev", opts.Version)
		assert.Contains(t, opts.CORS.AllowMethods, http.MethodPost)
		assert.Contains(t, opts.CORS.AllowedHeaders, "Mcp-Session-Id")
		assert.Equal(t, 5*time.Minute, opts.CORS.MaxAge)
	})

	t.Run("origins enable CORS", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions(WithCORSAllowOrigins([]string{" http://localhost:3000 ", "", "https://example.com"}))
		require.NoError(t, err)
		assert.True(t, opts.CORS.Enabled)
		assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, opts.CORS.AllowOrigins)
	})

	t.Run("blank origins leave CORS disabled", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions(WithCORSAllowOrigins([]string{" "}))
		require.NoError(t, err)
		assert.False(t, opts.CORS.Enabled)
	})

	t.Run("options override in order", func(t *testing.T) {
		t.Parallel()

		opts, err := NewAPIOptions(
			WithShutdownTimeout(5*time.Second),
			nil,
			WithShutdownTimeout(10*time.Second),
		)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, opts.ShutdownTimeout)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		_, err := NewAPIOptions(WithShutdownTimeout(0))
		require.Error(t, err)

		_, err = NewAPIOptions(WithVersion(" "))
		require.EqualError(t, err, "version cannot be empty")
	})
}

func TestDaemon_ValidateAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "valid host and port", addr: "localhost:8090"},
		{name: "valid IP and port", addr: "127.0.0.1:8090"},
		{name: "empty host with port", addr: ":8090"},
		{name: "missing port", addr: "localhost", wantErr: true},
		{name: "empty port", addr: "localhost:", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validateAddr(tc.addr)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
