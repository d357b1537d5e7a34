package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	require.True(t, s.Has("a"))
	require.True(t, s.Has("c"))
	require.False(t, s.Has("d"))
	require.Len(t, s, 3)
}

func TestOrderedKeepsFirstInsertion(t *testing.T) {
	var o Ordered[string]
	require.True(t, o.Add("seo"))
	require.True(t, o.Add("ppc"))
	require.False(t, o.Add("seo"))
	require.True(t, o.Has("ppc"))
	require.Equal(t, 2, o.Len())
	require.Equal(t, []string{"seo", "ppc"}, o.Values())
}
