package storagekey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArtifactKeys(t *testing.T) {
	require.Equal(t, "transcode:job:12345", BuildJobKey("12345"))
	require.Equal(t, "videos/v1/720p.mp4", Rendition("v1", "720p"))
	require.Equal(t, "streams/v1/hls/playlist.m3u8", HLSPlaylist("v1"))
	require.Equal(t, "streams/v1/hls/segment_004.ts", HLSSegment("v1", "segment_004.ts"))
	require.Equal(t, "streams/v1/dash/manifest.mpd", DASHManifest("v1"))
	require.Equal(t, "streams/v1/dash/chunk-0-00002.m4s", DASHSegment("v1", "chunk-0-00002.m4s"))
	require.Equal(t, "thumbnails/v1/thumb_3.jpg", Thumbnail("v1", 3))
	require.Equal(t, "previews/v1/preview.mp4", Preview("v1"))
}

func TestKeysAreDeterministic(t *testing.T) {
	// Re-running a job must overwrite the same objects, not create new ones.
	require.Equal(t, Rendition("v1", "480p"), Rendition("v1", "480p"))
	require.Equal(t, HLSPlaylist("v1"), HLSPlaylist("v1"))
}
