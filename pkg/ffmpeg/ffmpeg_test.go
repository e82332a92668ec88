package ffmpeg

import (
	"context"
	"os"
	"testing"

	"mediaplane/pkg/errutil"

	"github.com/stretchr/testify/require"
)

func TestThumbnailsZeroCountProducesNothing(t *testing.T) {
	dir := t.TempDir()
	f := &FFmpeg{tempDir: dir}

	paths, err := f.Thumbnails(context.Background(), "input.mp4", 0, 120, nil)
	require.NoError(t, err)
	require.Empty(t, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "no scratch dir may be left behind")
}

func TestThumbnailsUnknownDurationFails(t *testing.T) {
	f := &FFmpeg{tempDir: t.TempDir()}

	_, err := f.Thumbnails(context.Background(), "input.mp4", 5, 0, nil)
	require.Error(t, err)
	require.Equal(t, errutil.StatusEncodeFailed, errutil.StatusOf(err))
}
