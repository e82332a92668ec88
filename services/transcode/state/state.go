package state

import (
	"time"

	"mediaplane/pkg/ffmpeg"
)

type State string

const (
	StateQueued    State = "queued"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Rendition is one transcoded output file.
type Rendition struct {
	Profile string `json:"profile"`
	Key     string `json:"key"`
}

// SegmentedArtifact is a playlist or manifest plus its media segments.
type SegmentedArtifact struct {
	Playlist string   `json:"playlist"`
	Segments []string `json:"segments"`
}

// Result is the manifest of everything a successful job produced. Keys
// reference the artifact store.
type Result struct {
	TranscodedFiles []Rendition        `json:"transcoded_files"`
	HLS             *SegmentedArtifact `json:"hls,omitempty"`
	DASH            *SegmentedArtifact `json:"dash,omitempty"`
	Thumbnails      []string           `json:"thumbnails,omitempty"`
	Preview         string             `json:"preview"`
	Metadata        *ffmpeg.Metadata   `json:"metadata"`
}

// Keys lists every artifact-store key the result references.
func (r *Result) Keys() []string {
	var keys []string
	for _, f := range r.TranscodedFiles {
		keys = append(keys, f.Key)
	}
	if r.HLS != nil {
		keys = append(keys, r.HLS.Playlist)
		keys = append(keys, r.HLS.Segments...)
	}
	if r.DASH != nil {
		keys = append(keys, r.DASH.Playlist)
		keys = append(keys, r.DASH.Segments...)
	}
	keys = append(keys, r.Thumbnails...)
	if r.Preview != "" {
		keys = append(keys, r.Preview)
	}
	return keys
}

// Job is the queryable snapshot of one unit of transcoding work.
// Progress is monotonically non-decreasing within a single attempt and
// resets to 0 when a failed job is redelivered.
type Job struct {
	ID        string    `json:"job_id"`
	State     State     `json:"state"`
	Progress  int       `json:"progress"`
	Attempts  int       `json:"attempts"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
