package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupProfile(t *testing.T) {
	p, ok := LookupProfile("720p")
	require.True(t, ok)
	require.Equal(t, 1280, p.Width)
	require.Equal(t, 720, p.Height)
	require.Equal(t, "2800k", p.VideoBitrate)

	_, ok = LookupProfile("719p")
	require.False(t, ok)
}

func TestLadderOrderedHighToLow(t *testing.T) {
	l := Ladder()
	require.Len(t, l, 5)
	for i := 1; i < len(l); i++ {
		require.Greater(t, l[i-1].Height, l[i].Height)
	}
}

func TestDecideDownscale(t *testing.T) {
	// A 720p source never upscales to 1080p.
	profiles := DecideDownscale(1280, 720)
	require.Len(t, profiles, 4)
	require.Equal(t, "720p", profiles[0].Name)

	// Full ladder for a 4K source.
	require.Len(t, DecideDownscale(3840, 2160), 5)

	// Tiny sources get nothing.
	require.Empty(t, DecideDownscale(320, 180))
}
