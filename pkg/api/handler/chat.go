package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/ollama-webui/pkg/api/middleware"
	"github.com/dskvich/ollama-webui/pkg/api/response"
	"github.com/dskvich/ollama-webui/pkg/domain"
	"github.com/dskvich/ollama-webui/pkg/logger"
	"github.com/dskvich/ollama-webui/pkg/ollama"
	"github.com/dskvich/ollama-webui/pkg/render"
)

const maxImageSize = 20 << 20

type ChatService interface {
	Ask(ctx context.Context, sessionID, message, model string, stream domain.StreamHandler) (string, error)
	AskWithImages(ctx context.Context, sessionID, message string, images [][]byte, model string, stream domain.StreamHandler) (string, error)
	Messages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	ClearMessages(ctx context.Context, sessionID string) error
}

type chat struct {
	svc    ChatService
	writer response.JSONResponseWriter
}

func NewChat(svc ChatService) *chat {
	return &chat{
		svc:    svc,
		writer: response.JSONResponseWriter{},
	}
}

type askRequest struct {
	Message string `json:"message" binding:"required"`
	Model   string `json:"model"`
}

type messageView struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
	Images  int    `json:"images,omitempty"`
}

// Ask streams the answer as server-sent events: "message" events carry the
// text accumulated so far, "done" the full answer with its HTML rendering.
func (h *chat) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.WriteErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.streamAnswer(c, func(ctx context.Context, stream domain.StreamHandler) (string, error) {
		return h.svc.Ask(ctx, middleware.SessionID(c), req.Message, req.Model, stream)
	})
}

// AskWithImages takes a multipart form with "message", optional "model" and
// one or more "images" files.
func (h *chat) AskWithImages(c *gin.Context) {
	message := c.PostForm("message")
	if message == "" {
		h.writer.WriteErrorResponse(c, http.StatusBadRequest, "message is required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.writer.WriteErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("reading form: %v", err))
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		h.writer.WriteErrorResponse(c, http.StatusBadRequest, "at least one image is required")
		return
	}

	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			h.writer.WriteErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		images = append(images, img)
	}

	model := c.PostForm("model")
	h.streamAnswer(c, func(ctx context.Context, stream domain.StreamHandler) (string, error) {
		return h.svc.AskWithImages(ctx, middleware.SessionID(c), message, images, model, stream)
	})
}

func (h *chat) History(c *gin.Context) {
	messages, err := h.svc.Messages(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.writer.WriteErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		v := messageView{Role: m.Role, Content: m.Content, Images: len(m.Images)}
		if m.Role == domain.RoleAssistant {
			v.HTML = render.Markdown(m.Content)
		}
		views = append(views, v)
	}

	h.writer.WriteSuccessResponse(c, http.StatusOK, gin.H{"messages": views})
}

func (h *chat) ClearHistory(c *gin.Context) {
	if err := h.svc.ClearMessages(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.writer.WriteErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *chat) streamAnswer(c *gin.Context, ask func(context.Context, domain.StreamHandler) (string, error)) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	answer, err := ask(c.Request.Context(), func(text string) {
		c.SSEvent("message", gin.H{"text": text})
		c.Writer.Flush()
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.ErrorContext(c.Request.Context(), "Answering chat message failed", logger.Err(err))
		code := http.StatusInternalServerError
		if ollama.IsModelNotFound(err) {
			code = http.StatusNotFound
		}
		c.SSEvent("error", gin.H{"error": err.Error(), "code": code})
		c.Writer.Flush()
		return
	}

	c.SSEvent("done", gin.H{"text": answer, "html": render.Markdown(answer)})
	c.Writer.Flush()
}

func readImage(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxImageSize {
		return nil, fmt.Errorf("image %q is larger than %d bytes", fh.Filename, maxImageSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening image %q: %w", fh.Filename, err)
	}
	defer f.Close()

	img, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading image %q: %w", fh.Filename, err)
	}
	return img, nil
}
