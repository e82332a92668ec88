package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediaplane/pkg/errutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serveWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := gin.New()
	e.GET("/boom", Error(), func(c *gin.Context) {
		c.Error(err)
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return w
}

func TestErrorRendersDomainError(t *testing.T) {
	w := serveWithError(t, errutil.NotFound("job 42 not found"))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestErrorUnwrapsWrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("handle request: %w", errutil.StorageFailed("upload artifact"))
	w := serveWithError(t, wrapped)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "STORAGE_FAILED")
}

func TestErrorFallsBackToInternal(t *testing.T) {
	w := serveWithError(t, errors.New("something broke"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "INTERNAL")
}
