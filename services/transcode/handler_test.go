package transcode

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediaplane/services/transcode/state"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fakeRepo, *fakeEnqueuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, repo, enq := newTestService(t)
	e := gin.New()
	RegisterRoutes(e, NewHandler(svc))
	return e, repo, enq
}

func doJSON(e *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestCreateTranscodeJob(t *testing.T) {
	e, repo, enq := newTestRouter(t)

	w := doJSON(e, http.MethodPost, "/api/v1/transcode", `{
		"video_id": "v1",
		"input_key": "uploads/v1/source.mp4",
		"profiles": ["720p"],
		"generate_hls": true
	}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp EnqueueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JobID)
	require.Equal(t, "queued", resp.State)

	require.Len(t, enq.tasks, 1)
	require.Contains(t, repo.jobs, resp.JobID)
}

func TestCreateTranscodeJobBadBody(t *testing.T) {
	e, _, enq := newTestRouter(t)

	w := doJSON(e, http.MethodPost, "/api/v1/transcode", `{"video_id": 42}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "BAD_REQUEST")
	require.Empty(t, enq.tasks)
}

func TestCreateTranscodeJobUnknownProfile(t *testing.T) {
	e, _, _ := newTestRouter(t)

	w := doJSON(e, http.MethodPost, "/api/v1/transcode", `{
		"video_id": "v1",
		"input_key": "uploads/v1/source.mp4",
		"profiles": ["999p"]
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "VALIDATION_FAILED")
}

func TestGetTranscodeStatus(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	repo.jobs["j1"] = state.Job{
		ID:       "j1",
		State:    state.StateActive,
		Progress: 40,
		Attempts: 1,
	}

	w := doJSON(e, http.MethodGet, "/api/v1/transcode/j1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var job state.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	require.Equal(t, state.StateActive, job.State)
	require.Equal(t, 40, job.Progress)
}

func TestGetArtifactsConflictWhileRunning(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	repo.jobs["j1"] = state.Job{ID: "j1", State: state.StateActive, Progress: 10}

	w := doJSON(e, http.MethodGet, "/api/v1/transcode/j1/artifacts", "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "CONFLICT")
}

func TestDeleteArtifactsEndpoint(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	repo.jobs["j1"] = completedJob("j1")

	w := doJSON(e, http.MethodDelete, "/api/v1/transcode/j1/artifacts", "")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetTranscodeStatusNotFound(t *testing.T) {
	e, _, _ := newTestRouter(t)

	w := doJSON(e, http.MethodGet, "/api/v1/transcode/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "NOT_FOUND")
}
