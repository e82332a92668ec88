package ffmpeg

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"mediaplane/pkg/errutil"
)

// Metadata is the read-only technical summary of a source file, computed
// once per job before any transcoding stage begins.
type Metadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Format          string  `json:"format"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	BitRate         int64   `json:"bit_rate"`
	FrameRate       float64 `json:"frame_rate"`
	VideoCodec      string  `json:"video_codec"`
	AudioCodec      string  `json:"audio_codec,omitempty"`
	AudioBitRate    int64   `json:"audio_bit_rate,omitempty"`
}

type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		BitRate    string `json:"bit_rate"`
	} `json:"streams"`
}

func (f *FFmpeg) Probe(ctx context.Context, inputPath string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, f.probePath,
		"-loglevel", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		inputPath,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errutil.ProbeFailed("ffprobe failed: "+strings.TrimSpace(string(out)), errutil.WithErr(err))
	}

	var result probeOutput
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, errutil.ProbeFailed("unreadable ffprobe output", errutil.WithErr(err))
	}

	md := &Metadata{
		Format:          result.Format.FormatName,
		DurationSeconds: parseFloat(result.Format.Duration),
		BitRate:         parseInt(result.Format.BitRate),
	}

	for _, s := range result.Streams {
		switch s.CodecType {
		case "video":
			if md.VideoCodec != "" {
				continue
			}
			md.VideoCodec = s.CodecName
			md.Width = s.Width
			md.Height = s.Height
			md.FrameRate = parseFrameRate(s.RFrameRate)
		case "audio":
			if md.AudioCodec != "" {
				continue
			}
			md.AudioCodec = s.CodecName
			md.AudioBitRate = parseInt(s.BitRate)
		}
	}

	if md.VideoCodec == "" {
		return nil, errutil.ProbeFailed("no video stream found in " + inputPath)
	}

	return md, nil
}

// parseFrameRate evaluates a rational like "30000/1001" to a decimal.
func parseFrameRate(r string) float64 {
	parts := strings.SplitN(r, "/", 2)
	if len(parts) != 2 {
		return parseFloat(r)
	}
	num := parseFloat(parts[0])
	den := parseFloat(parts[1])
	if den == 0 {
		return 0
	}
	return num / den
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
