// Package ollama wraps the Ollama HTTP API with the calls the chat service and
// the examples need, translating between API payloads and domain types.
package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/samber/lo"

	"github.com/dskvich/ollama-webui/pkg/domain"
	"github.com/dskvich/ollama-webui/pkg/logger"
)

const defaultLibraryURL = "https://ollama.com/library"

type Config struct {
	Host           string
	RequestTimeout time.Duration
	Verbose        bool
	LibraryURL     string
}

type client struct {
	api        *api.Client
	pullAPI    *api.Client
	hc         *http.Client
	host       string
	libraryURL string
}

func NewClient(cfg Config) (*client, error) {
	if cfg.Host == "" {
		return nil, errors.New("ollama host is empty")
	}
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host: %w", err)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Verbose {
		transport = &verboseTransport{next: transport}
	}

	hc := &http.Client{Timeout: cfg.RequestTimeout, Transport: transport}

	return &client{
		api: api.NewClient(base, hc),
		// pulls run for minutes, only the caller's context bounds them
		pullAPI:    api.NewClient(base, &http.Client{Transport: transport}),
		hc:         hc,
		host:       base.Host,
		libraryURL: lo.Ternary(cfg.LibraryURL != "", cfg.LibraryURL, defaultLibraryURL),
	}, nil
}

// Host returns host:port of the server the client talks to.
func (c *client) Host() string {
	return c.host
}

// Ping returns nil when the server answers the heartbeat.
func (c *client) Ping(ctx context.Context) error {
	if err := c.api.Heartbeat(ctx); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}

func (c *client) Version(ctx context.Context) (string, error) {
	v, err := c.api.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching version: %w", err)
	}
	return v, nil
}

func (c *client) ListModels(ctx context.Context) ([]domain.Model, error) {
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	return lo.Map(resp.Models, func(m api.ListModelResponse, _ int) domain.Model {
		return domain.Model{
			Name:       m.Name,
			Model:      m.Model,
			ModifiedAt: m.ModifiedAt,
			Size:       m.Size,
			Digest:     m.Digest,
			Details:    toDomainDetails(m.Details),
		}
	}), nil
}

func (c *client) ListRunning(ctx context.Context) ([]domain.RunningModel, error) {
	resp, err := c.api.ListRunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing running models: %w", err)
	}

	return lo.Map(resp.Models, func(m api.ProcessModelResponse, _ int) domain.RunningModel {
		return domain.RunningModel{
			Name:      m.Name,
			Model:     m.Model,
			Size:      m.Size,
			SizeVRAM:  m.SizeVRAM,
			Digest:    m.Digest,
			ExpiresAt: m.ExpiresAt,
			Details:   toDomainDetails(m.Details),
		}
	}), nil
}

// Pull downloads model, reporting each progress update to fn when it is not nil.
func (c *client) Pull(ctx context.Context, model string, fn func(domain.PullStatus)) error {
	err := c.pullAPI.Pull(ctx, &api.PullRequest{Model: model}, func(p api.ProgressResponse) error {
		if fn != nil {
			fn(domain.PullStatus{
				Model:     model,
				Status:    p.Status,
				Completed: p.Completed,
				Total:     p.Total,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pulling model %q: %w", model, err)
	}
	return nil
}

// Chat sends messages and returns the reply with the extended history. When
// stream is not nil the reply is streamed and stream gets the accumulated text.
func (c *client) Chat(ctx context.Context, model string, messages []domain.ChatMessage, stream domain.StreamHandler) (domain.ChatResult, error) {
	return c.chat(ctx, model, messages, nil, stream)
}

// ChatWithTools is Chat with tool definitions attached. Requested calls are
// returned in the result and are not executed.
func (c *client) ChatWithTools(ctx context.Context, model string, messages []domain.ChatMessage, tools []domain.Tool) (domain.ChatResult, error) {
	return c.chat(ctx, model, messages, tools, nil)
}

func (c *client) chat(ctx context.Context, model string, messages []domain.ChatMessage, tools []domain.Tool, stream domain.StreamHandler) (domain.ChatResult, error) {
	apiTools, err := toAPITools(tools)
	if err != nil {
		return domain.ChatResult{}, err
	}

	streaming := stream != nil
	req := &api.ChatRequest{
		Model:    model,
		Messages: toAPIMessages(messages),
		Stream:   &streaming,
	}
	req.Tools = apiTools

	var (
		content   strings.Builder
		toolCalls []domain.ToolCall
	)
	err = c.api.Chat(ctx, req, func(r api.ChatResponse) error {
		toolCalls = append(toolCalls, toDomainToolCalls(r.Message.ToolCalls)...)
		if r.Message.Content == "" {
			return nil
		}
		content.WriteString(r.Message.Content)
		if stream != nil {
			stream(content.String())
		}
		return nil
	})
	if err != nil {
		return domain.ChatResult{}, fmt.Errorf("chatting with %q: %w", model, err)
	}

	reply := domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   content.String(),
		ToolCalls: toolCalls,
	}

	history := make([]domain.ChatMessage, 0, len(messages)+1)
	history = append(history, messages...)
	history = append(history, reply)

	return domain.ChatResult{
		Response:  reply.Content,
		ToolCalls: toolCalls,
		History:   history,
	}, nil
}

// Generate runs a single non-streamed completion. With raw set the prompt is
// sent without the model's template.
func (c *client) Generate(ctx context.Context, model, prompt string, raw bool) (string, error) {
	streaming := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Raw:    raw,
		Stream: &streaming,
	}

	var out strings.Builder
	err := c.api.Generate(ctx, req, func(r api.GenerateResponse) error {
		out.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating with %q: %w", model, err)
	}
	return out.String(), nil
}

// IsModelNotFound reports whether err is the server's answer for an unknown model.
func IsModelNotFound(err error) bool {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound
	}
	// streamed endpoints report the failure as a plain error message
	return err != nil && strings.Contains(err.Error(), "not found")
}

func toDomainDetails(d api.ModelDetails) domain.ModelDetails {
	return domain.ModelDetails{
		Format:            d.Format,
		Family:            d.Family,
		Families:          d.Families,
		ParameterSize:     d.ParameterSize,
		QuantizationLevel: d.QuantizationLevel,
	}
}

const maxLoggedBody = 4 << 10

type verboseTransport struct {
	next http.RoundTripper
}

// RoundTrip logs the request and response bodies at debug level. The response
// body is logged on Close so streamed replies still reach the caller as they arrive.
func (t *verboseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		if reqBody, req, err = snapshotBody(req); err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		slog.DebugContext(req.Context(), "Ollama request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"request", truncateBody(reqBody),
			logger.Err(err),
		)
		return nil, err
	}

	resp.Body = &loggedBody{
		ReadCloser: resp.Body,
		onClose: func(body []byte) {
			slog.DebugContext(req.Context(), "Ollama request",
				"method", req.Method,
				"url", req.URL.String(),
				"status", resp.StatusCode,
				"elapsed", time.Since(start),
				"request", truncateBody(reqBody),
				"response", truncateBody(body),
			)
		},
	}
	return resp, nil
}

func snapshotBody(req *http.Request) ([]byte, *http.Request, error) {
	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, req, err
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		return b, req, err
	}

	b, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, req, err
	}
	clone := req.Clone(req.Context())
	clone.Body = io.NopCloser(bytes.NewReader(b))
	return b, clone, nil
}

func truncateBody(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}

type loggedBody struct {
	io.ReadCloser
	buf     bytes.Buffer
	onClose func([]byte)
	closed  bool
}

func (b *loggedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if room := maxLoggedBody + 1 - b.buf.Len(); room > 0 && n > 0 {
		b.buf.Write(p[:min(n, room)])
	}
	return n, err
}

func (b *loggedBody) Close() error {
	err := b.ReadCloser.Close()
	if !b.closed {
		b.closed = true
		b.onClose(b.buf.Bytes())
	}
	return err
}
