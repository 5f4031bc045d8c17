package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/dskvich/ollama-webui/pkg/domain"
	"github.com/dskvich/ollama-webui/pkg/logger"
	"github.com/dskvich/ollama-webui/pkg/ollama"
)

const (
	// DBQueryMarker routes a chat message to the database query tool.
	DBQueryMarker = "【数据查询】"
	// DefaultSessionID is used by single-user callers.
	DefaultSessionID = "default"

	defaultDBQueryPrompt = "Give me the details of the employee named 'Rahul Kumar'?"
	modifiedAtLayout     = "02 Jan, 2006 03:04 PM"
)

type OllamaClient interface {
	Host() string
	Ping(ctx context.Context) error
	ListModels(ctx context.Context) ([]domain.Model, error)
	ListRunning(ctx context.Context) ([]domain.RunningModel, error)
	ListLibraryModels(ctx context.Context) ([]domain.LibraryModel, error)
	Pull(ctx context.Context, model string, fn func(domain.PullStatus)) error
	Chat(ctx context.Context, model string, messages []domain.ChatMessage, stream domain.StreamHandler) (domain.ChatResult, error)
	GenerateWithTools(ctx context.Context, model, prompt string, invoker ollama.ToolInvoker) (domain.ToolsResult, error)
}

type ToolRegistry interface {
	Specification(name string) (domain.Tool, error)
	InvokeFunction(ctx context.Context, name string, args map[string]any) (any, error)
}

type ChatHistoryRepository interface {
	Get(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	Replace(ctx context.Context, sessionID string, messages []domain.ChatMessage) error
	Clear(ctx context.Context, sessionID string) error
}

type ChatConfig struct {
	ChatModel   string
	ToolsModel  string
	ImageModel  string
	DBQueryTool string
}

type chatService struct {
	client  OllamaClient
	tools   ToolRegistry
	history ChatHistoryRepository
	cfg     ChatConfig

	sessionsMu sync.Mutex
	sessions   map[string]*sessionLock

	pullsMu sync.RWMutex
	pulls   map[string]domain.PullStatus
}

func NewChatService(
	client OllamaClient,
	tools ToolRegistry,
	history ChatHistoryRepository,
	cfg ChatConfig,
) *chatService {
	return &chatService{
		client:   client,
		tools:    tools,
		history:  history,
		cfg:      cfg,
		sessions: make(map[string]*sessionLock),
		pulls:    make(map[string]domain.PullStatus),
	}
}

// Ask sends message to model within the session history and returns the
// answer. Messages carrying DBQueryMarker go through ToolCallingDBQuery.
func (c *chatService) Ask(ctx context.Context, sessionID, message, model string, stream domain.StreamHandler) (string, error) {
	if strings.Contains(message, DBQueryMarker) {
		return c.ToolCallingDBQuery(ctx, sessionID, message, model, stream)
	}

	msg := domain.ChatMessage{Role: domain.RoleUser, Content: message}
	return c.chat(ctx, sessionID, lo.Ternary(model != "", model, c.cfg.ChatModel), msg, stream)
}

// AskWithImages is Ask with image attachments, answered by a vision model.
func (c *chatService) AskWithImages(ctx context.Context, sessionID, message string, images [][]byte, model string, stream domain.StreamHandler) (string, error) {
	msg := domain.ChatMessage{Role: domain.RoleUser, Content: message, Images: images}
	return c.chat(ctx, sessionID, lo.Ternary(model != "", model, c.cfg.ImageModel), msg, stream)
}

func (c *chatService) chat(ctx context.Context, sessionID, model string, msg domain.ChatMessage, stream domain.StreamHandler) (string, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	history, err := c.history.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("loading chat history: %w", err)
	}

	slog.DebugContext(ctx, "Sending chat request", "model", model, "history_len", len(history), "images", len(msg.Images))

	res, err := c.client.Chat(ctx, model, append(history, msg), stream)
	if err != nil {
		return "", err
	}

	if err := c.history.Replace(ctx, sessionID, res.History); err != nil {
		return "", fmt.Errorf("saving chat history: %w", err)
	}
	return res.Response, nil
}

// ToolCallingDBQuery answers message with the database query tool. Each tool
// result is appended to the answer and streamed as it becomes available.
func (c *chatService) ToolCallingDBQuery(ctx context.Context, sessionID, message, model string, stream domain.StreamHandler) (string, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	prompt := strings.TrimSpace(strings.ReplaceAll(message, DBQueryMarker, ""))
	if prompt == "" {
		prompt = defaultDBQueryPrompt
	}

	spec, err := c.tools.Specification(c.cfg.DBQueryTool)
	if err != nil {
		return "", err
	}

	rawPrompt, err := ollama.NewPromptBuilder().
		WithToolSpecification(spec).
		WithPrompt(prompt).
		Build()
	if err != nil {
		return "", fmt.Errorf("building tool prompt: %w", err)
	}

	res, err := c.client.GenerateWithTools(ctx, lo.Ternary(model != "", model, c.cfg.ToolsModel), rawPrompt, c.tools)
	var answer string
	switch {
	case errors.Is(err, domain.ErrNoToolCalls) && strings.TrimSpace(res.ModelResponse) != "":
		slog.InfoContext(ctx, "Model answered without calling a tool", "tool", c.cfg.DBQueryTool)
		answer = strings.TrimSpace(res.ModelResponse)
		if stream != nil {
			stream(answer)
		}
	case err != nil:
		return "", err
	default:
		var sb strings.Builder
		for i, r := range res.ToolResults {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			fmt.Fprint(&sb, r.Result)
			if stream != nil {
				stream(sb.String())
			}
		}
		answer = sb.String()
	}

	history, err := c.history.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("loading chat history: %w", err)
	}
	history = append(history,
		domain.ChatMessage{Role: domain.RoleUser, Content: message},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: answer},
	)
	if err := c.history.Replace(ctx, sessionID, history); err != nil {
		return "", fmt.Errorf("saving chat history: %w", err)
	}

	return answer, nil
}

func (c *chatService) ClearMessages(ctx context.Context, sessionID string) error {
	unlock := c.lockSession(sessionID)
	defer unlock()

	if err := c.history.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}
	return nil
}

// Messages returns the session history in chronological order.
func (c *chatService) Messages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	messages, err := c.history.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}
	return messages, nil
}

func (c *chatService) ListLibraryModels(ctx context.Context) ([]domain.LibraryModel, error) {
	return c.client.ListLibraryModels(ctx)
}

// GetModelItems lists local models for the model picker.
func (c *chatService) GetModelItems(ctx context.Context) ([]domain.ModelItem, error) {
	models, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(models, func(m domain.Model, _ int) domain.ModelItem {
		return domain.ModelItem{Name: m.ModelName(), Version: m.ModelVersion()}
	}), nil
}

// GetImageModelItems lists the models offered for image questions.
func (c *chatService) GetImageModelItems() []domain.ModelItem {
	name, version := domain.SplitModelTag(c.cfg.ImageModel)
	return []domain.ModelItem{{Name: name, Version: version}}
}

// GetModels lists local models formatted for display.
func (c *chatService) GetModels(ctx context.Context) ([]domain.ModelListItem, error) {
	models, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(models, func(m domain.Model, _ int) domain.ModelListItem {
		return domain.ModelListItem{
			Name:       m.ModelName(),
			Model:      m.Model,
			ModifiedAt: m.ModifiedAt.Local().Format(modifiedAtLayout),
			Digest:     m.Digest,
			Size:       humanize.IBytes(uint64(max(m.Size, 0))),
		}
	}), nil
}

func (c *chatService) IsConnected(ctx context.Context) bool {
	if err := c.client.Ping(ctx); err != nil {
		slog.DebugContext(ctx, "Ollama is not reachable", logger.Err(err))
		return false
	}
	return true
}

func (c *chatService) GetConnectionInfo(ctx context.Context) domain.ConnectionInfo {
	running, err := c.client.ListRunning(ctx)
	if err != nil {
		slog.DebugContext(ctx, "Listing running models failed", logger.Err(err))
		info := domain.ConnectionInfoNotAvailable
		info.Host = c.client.Host()
		return info
	}

	return domain.ConnectionInfo{
		Status: domain.ConnectionStatusConnected,
		Host:   c.client.Host(),
		Models: lo.Ternary(running != nil, running, []domain.RunningModel{}),
	}
}

// PullModel starts downloading model in the background and returns at once.
// Progress is available through PullStatus. A pull already in flight for the
// same model is not started twice.
func (c *chatService) PullModel(ctx context.Context, model string) {
	c.pullsMu.Lock()
	if st, ok := c.pulls[model]; ok && !st.Done {
		c.pullsMu.Unlock()
		slog.InfoContext(ctx, "Model pull already running", "model", model)
		return
	}
	c.pulls[model] = domain.PullStatus{Model: model, Status: "queued"}
	c.pullsMu.Unlock()

	pullCtx := context.WithoutCancel(ctx)
	go func() {
		slog.InfoContext(pullCtx, "Pulling model", "model", model)

		err := c.client.Pull(pullCtx, model, func(st domain.PullStatus) {
			c.setPullStatus(st)
		})

		final := domain.PullStatus{Model: model, Status: "success", Done: true}
		if err != nil {
			slog.ErrorContext(pullCtx, "Model pull failed", "model", model, logger.Err(err))
			final.Status = "failed"
			final.Err = err.Error()
		} else {
			slog.InfoContext(pullCtx, "Model pulled", "model", model)
		}
		c.setPullStatus(final)
	}()
}

func (c *chatService) PullStatus(model string) (domain.PullStatus, bool) {
	c.pullsMu.RLock()
	defer c.pullsMu.RUnlock()

	st, ok := c.pulls[model]
	return st, ok
}

func (c *chatService) setPullStatus(st domain.PullStatus) {
	c.pullsMu.Lock()
	defer c.pullsMu.Unlock()

	c.pulls[st.Model] = st
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lockSession serializes requests of one session. The entry is dropped once
// no caller holds or waits on it.
func (c *chatService) lockSession(sessionID string) func() {
	c.sessionsMu.Lock()
	l, ok := c.sessions[sessionID]
	if !ok {
		l = &sessionLock{}
		c.sessions[sessionID] = l
	}
	l.refs++
	c.sessionsMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		c.sessionsMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.sessions, sessionID)
		}
		c.sessionsMu.Unlock()
	}
}
