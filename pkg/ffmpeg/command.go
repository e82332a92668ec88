package ffmpeg

import (
	"bufio"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"mediaplane/pkg/errutil"
)

const maxDiagnosticLen = 2048

// runEncode executes ffmpeg with -progress reporting on stdout and the
// tool's diagnostics on stderr. durationSeconds scales out_time into a
// percentage; zero disables percentage reporting until the final "end".
func (f *FFmpeg) runEncode(ctx context.Context, args []string, durationSeconds float64, onProgress ProgressFunc) error {
	full := append([]string{"-nostats", "-progress", "pipe:1"}, args...)

	cmd := exec.CommandContext(ctx, f.binPath, full...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errutil.EncodeFailed("ffmpeg stdout pipe", errutil.WithErr(err))
	}

	var stderrBuf strings.Builder
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return errutil.EncodeFailed("ffmpeg start", errutil.WithErr(err))
	}

	last := 0
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}

		switch key {
		case "out_time_ms":
			// out_time_ms is reported in microseconds.
			if durationSeconds <= 0 || onProgress == nil {
				continue
			}
			outTime, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			current := int(outTime / 1e6 / durationSeconds * 100)
			if current > 99 {
				current = 99
			}
			if current > last {
				last = current
				onProgress(current)
			}
		case "progress":
			if value == "end" && onProgress != nil {
				onProgress(100)
			}
		}
	}

	if err := cmd.Wait(); err != nil {
		return errutil.EncodeFailed("ffmpeg: "+diagnosticTail(stderrBuf.String()), errutil.WithErr(err))
	}

	return nil
}

// diagnosticTail keeps the end of the tool's stderr, where ffmpeg puts
// the actual failure reason.
func diagnosticTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxDiagnosticLen {
		s = s[len(s)-maxDiagnosticLen:]
	}
	return s
}
