package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLength(t *testing.T) {
	require.NotPanics(t, func() { Length("abcdefghijkl", 12) })
	require.PanicsWithValue(t, "assert.Length expected 12 actual 3", func() { Length("abc", 12) })
}
