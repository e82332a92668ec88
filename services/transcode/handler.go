package transcode

import (
	"net/http"

	"mediaplane/pkg/errutil"
	"mediaplane/pkg/middleware"
	"mediaplane/services/transcode/state"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(e *gin.Engine, h *Handler) {
	api := e.Group("/api/v1", middleware.Error())
	api.POST("/transcode", h.Create)
	api.GET("/transcode/:id", h.Status)
	api.GET("/transcode/:id/artifacts", h.Artifacts)
	api.DELETE("/transcode/:id/artifacts", h.DeleteArtifacts)
}

func (h *Handler) Create(c *gin.Context) {
	var req TranscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}

	jobID, err := h.svc.Enqueue(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, EnqueueResponse{
		JobID: jobID,
		State: string(state.StateQueued),
	})
}

func (h *Handler) Status(c *gin.Context) {
	job, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *Handler) Artifacts(c *gin.Context) {
	urls, err := h.svc.ArtifactURLs(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, urls)
}

func (h *Handler) DeleteArtifacts(c *gin.Context) {
	if err := h.svc.DeleteArtifacts(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
