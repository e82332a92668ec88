package storagekey

import "fmt"

// Key prefixes (global convention across services and players).
const (
	JobPrefix       = "transcode:job"
	VideoPrefix     = "videos"
	StreamPrefix    = "streams"
	ThumbnailPrefix = "thumbnails"
	PreviewPrefix   = "previews"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildJobKey returns "transcode:job:{jobID}" (redis snapshot key).
func BuildJobKey(jobID string) string {
	return NamespaceKey(JobPrefix, jobID)
}

// Rendition returns "videos/{videoID}/{profile}.mp4".
func Rendition(videoID, profile string) string {
	return fmt.Sprintf("%s/%s/%s.mp4", VideoPrefix, videoID, profile)
}

// HLSPlaylist returns "streams/{videoID}/hls/playlist.m3u8".
func HLSPlaylist(videoID string) string {
	return fmt.Sprintf("%s/%s/hls/playlist.m3u8", StreamPrefix, videoID)
}

// HLSSegment returns "streams/{videoID}/hls/{name}". Segment names come
// straight from the packager so the playlist references resolve.
func HLSSegment(videoID, name string) string {
	return fmt.Sprintf("%s/%s/hls/%s", StreamPrefix, videoID, name)
}

// DASHManifest returns "streams/{videoID}/dash/manifest.mpd".
func DASHManifest(videoID string) string {
	return fmt.Sprintf("%s/%s/dash/manifest.mpd", StreamPrefix, videoID)
}

// DASHSegment returns "streams/{videoID}/dash/{name}".
func DASHSegment(videoID, name string) string {
	return fmt.Sprintf("%s/%s/dash/%s", StreamPrefix, videoID, name)
}

// Thumbnail returns "thumbnails/{videoID}/thumb_{n}.jpg". n is 1-based.
func Thumbnail(videoID string, n int) string {
	return fmt.Sprintf("%s/%s/thumb_%d.jpg", ThumbnailPrefix, videoID, n)
}

// Preview returns "previews/{videoID}/preview.mp4".
func Preview(videoID string) string {
	return fmt.Sprintf("%s/%s/preview.mp4", PreviewPrefix, videoID)
}
