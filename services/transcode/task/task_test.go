package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryBudget(t *testing.T) {
	cases := []struct {
		maxAttempts int
		want        int
	}{
		{maxAttempts: 0, want: 0},
		{maxAttempts: 1, want: 0},
		{maxAttempts: 3, want: 2},
	}
	for _, tc := range cases {
		p := QueuePolicy{MaxAttempts: tc.maxAttempts}
		require.Equal(t, tc.want, p.retryBudget(), "max attempts %d", tc.maxAttempts)
	}
}

func TestNewTranscodeTask(t *testing.T) {
	task, err := NewTranscodeTask(Payload{
		JobID:    "j1",
		VideoID:  "v1",
		InputKey: "uploads/v1/source.mp4",
		Profiles: []string{"720p"},
	}, QueuePolicy{
		MaxAttempts:  3,
		LeaseTimeout: 30 * time.Minute,
		Retention:    24 * time.Hour,
	})
	require.NoError(t, err)
	require.Equal(t, TypeTranscodeVideo, task.Type())

	var p Payload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	require.Equal(t, "j1", p.JobID)
	require.Equal(t, []string{"720p"}, p.Profiles)
}
