package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30000/1001", 29.97002997002997},
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, parseFrameRate(tc.in), 1e-9, "input %q", tc.in)
	}
}

func TestParseHelpersToleratesGarbage(t *testing.T) {
	require.Zero(t, parseFloat("N/A"))
	require.Zero(t, parseInt("N/A"))
	require.Equal(t, 120.5, parseFloat(" 120.5 "))
	require.Equal(t, int64(5000000), parseInt("5000000"))
}
