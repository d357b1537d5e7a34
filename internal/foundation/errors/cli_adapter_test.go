package errors

import (
	"bytes"
	stdErrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad site.yml").Build(), 7},
		{"notify", NewError(CategoryNotify, "nats down").Build(), 8},
		{"export", NewError(CategoryExport, "write index").Build(), 11},
		{"content", NewError(CategoryContent, "bad toml").Build(), 11},
		{"internal", InternalError("bug").Build(), 10},
		{"unclassified", stdErrors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	cfgErr := ConfigError("site.theme is required").Build()
	require.Equal(t, "Configuration error: site.theme is required", quiet.FormatError(cfgErr))
	require.Equal(t, cfgErr.Error(), verbose.FormatError(cfgErr))

	require.Equal(t, "Internal error occurred (use -v for details)", quiet.FormatError(InternalError("x").Build()))
	require.Equal(t, "Error: boom", quiet.FormatError(stdErrors.New("boom")))
	require.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	code := -1
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(NewError(CategoryExport, "write services-index.json").Fatal().Build())

	require.Equal(t, 11, code)
	require.Contains(t, out.String(), "write services-index.json")
}
