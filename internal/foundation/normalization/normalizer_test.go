package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color string

const (
	red   color = "red"
	green color = "green"
)

func TestNormalizer(t *testing.T) {
	n := New("color", map[string]color{"red": red, "green": green}, red)

	tests := []struct {
		name  string
		input string
		want  color
	}{
		{"exact", "green", green},
		{"case insensitive", "GREEN", green},
		{"whitespace", "  green ", green},
		{"unknown falls back", "blue", red},
		{"empty falls back", "", red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizerLookup(t *testing.T) {
	n := New("color", map[string]color{"red": red, "green": green}, red)

	v, err := n.Lookup(" Red ")
	require.NoError(t, err)
	require.Equal(t, red, v)

	_, err = n.Lookup("blue")
	require.ErrorContains(t, err, `invalid color "blue"`)
	require.Equal(t, []string{"green", "red"}, n.Keys())
}
