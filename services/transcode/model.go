package transcode

// TranscodeRequest is the caller-facing shape of one transcoding job.
// Profiles may be empty; a metadata-only run is valid and the preview
// is produced regardless of flags.
type TranscodeRequest struct {
	VideoID            string   `json:"video_id" binding:"required"`
	InputKey           string   `json:"input_key" binding:"required"`
	Profiles           []string `json:"profiles"`
	GenerateHLS        bool     `json:"generate_hls"`
	GenerateDASH       bool     `json:"generate_dash"`
	GenerateThumbnails bool     `json:"generate_thumbnails"`
}

// EnqueueResponse is returned synchronously; everything else is polled
// through the status endpoint.
type EnqueueResponse struct {
	JobID string `json:"job_id"`
	State string `json:"state"`
}

type RenditionURL struct {
	Profile string `json:"profile"`
	URL     string `json:"url"`
}

// ArtifactURLs carries presigned links for a completed job's outputs.
type ArtifactURLs struct {
	Renditions   []RenditionURL `json:"renditions,omitempty"`
	HLSPlaylist  string         `json:"hls_playlist,omitempty"`
	DASHManifest string         `json:"dash_manifest,omitempty"`
	Thumbnails   []string       `json:"thumbnails,omitempty"`
	Preview      string         `json:"preview,omitempty"`
	ExpiresIn    int            `json:"expires_in"`
}
