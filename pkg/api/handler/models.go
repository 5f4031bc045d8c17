package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/ollama-webui/pkg/api/response"
	"github.com/dskvich/ollama-webui/pkg/domain"
)

type ModelService interface {
	GetConnectionInfo(ctx context.Context) domain.ConnectionInfo
	GetModels(ctx context.Context) ([]domain.ModelListItem, error)
	GetModelItems(ctx context.Context) ([]domain.ModelItem, error)
	GetImageModelItems() []domain.ModelItem
	ListLibraryModels(ctx context.Context) ([]domain.LibraryModel, error)
	PullModel(ctx context.Context, model string)
	PullStatus(model string) (domain.PullStatus, bool)
}

type models struct {
	svc    ModelService
	writer response.JSONResponseWriter
}

func NewModels(svc ModelService) *models {
	return &models{
		svc:    svc,
		writer: response.JSONResponseWriter{},
	}
}

type connectionResponse struct {
	Connected bool `json:"connected"`
	domain.ConnectionInfo
}

type pullRequest struct {
	Model string `json:"model" binding:"required"`
}

func (h *models) Health(c *gin.Context) {
	h.writer.WriteSuccessResponse(c, http.StatusOK, gin.H{"status": "ok"})
}

// Connection reports the server as connected when its running models could be listed.
func (h *models) Connection(c *gin.Context) {
	info := h.svc.GetConnectionInfo(c.Request.Context())
	h.writer.WriteSuccessResponse(c, http.StatusOK, connectionResponse{
		Connected:      info.Available(),
		ConnectionInfo: info,
	})
}

func (h *models) List(c *gin.Context) {
	items, err := h.svc.GetModels(c.Request.Context())
	if err != nil {
		h.writer.WriteErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	h.writer.WriteSuccessResponse(c, http.StatusOK, gin.H{"models": items})
}

func (h *models) Items(c *gin.Context) {
	items, err := h.svc.GetModelItems(c.Request.Context())
	if err != nil {
		h.writer.WriteErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	h.writer.WriteSuccessResponse(c, http.StatusOK, gin.H{"items": items})
}

func (h *models) ImageItems(c *gin.Context) {
	h.writer.WriteSuccessResponse(c, http.StatusOK, gin.H{"items": h.svc.GetImageModelItems()})
}

func (h *models) Library(c *gin.Context) {
	library, err := h.svc.ListLibraryModels(c.Request.Context())
	if err != nil {
		h.writer.WriteErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	h.writer.WriteSuccessResponse(c, http.StatusOK, gin.H{"models": library})
}

// Pull starts a background download and answers before it completes.
func (h *models) Pull(c *gin.Context) {
	var req pullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.WriteErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.svc.PullModel(c.Request.Context(), req.Model)

	st, _ := h.svc.PullStatus(req.Model)
	h.writer.WriteSuccessResponse(c, http.StatusAccepted, st)
}

func (h *models) PullStatus(c *gin.Context) {
	st, ok := h.svc.PullStatus(strings.TrimPrefix(c.Param("model"), "/"))
	if !ok {
		h.writer.WriteErrorResponse(c, http.StatusNotFound, "no pull started for this model")
		return
	}
	h.writer.WriteSuccessResponse(c, http.StatusOK, st)
}
