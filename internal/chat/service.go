package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anhtu-vn/gochat/internal/ai"
	"github.com/anhtu-vn/gochat/internal/common"
	"github.com/anhtu-vn/gochat/internal/tools"
)

const systemPrompt = "You are a helpful AI assistant. Use the search_web function when you need real-time information or need to verify facts."

// turnState tracks the tool-call round trip: exactly zero or one tool call
// per turn, never nested.
type turnState int

const (
	stateAwaitingCompletion turnState = iota
	stateAwaitingToolResult
	stateDone
)

// ToolCallResult reports a resolved tool call back to the request boundary.
type ToolCallResult struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
	Result any            `json:"result,omitempty"`
}

// Service drives one user-turn-to-assistant-turn exchange: persist the user
// message, call the completion provider, resolve at most one tool call, and
// persist the reply.
type Service struct {
	store             *Store
	provider          ai.Provider
	tools             *tools.Registry
	cfg               ai.Config
	contextWindowSize int
}

func NewService(store *Store, provider ai.Provider, registry *tools.Registry, cfg ai.Config, contextWindowSize int) *Service {
	if contextWindowSize <= 0 || contextWindowSize > 100 {
		contextWindowSize = 5
	}
	return &Service{
		store:             store,
		provider:          provider,
		tools:             registry,
		cfg:               cfg,
		contextWindowSize: contextWindowSize,
	}
}

// effectiveConfig merges the caller's completion options over the service
// defaults. Tool availability stays server-gated: a request cannot enable
// functions the process has no engine for.
func (s *Service) effectiveConfig(cfg ai.Config) ai.Config {
	eff := s.cfg
	if cfg.Model != "" {
		eff.Model = cfg.Model
	}
	if cfg.Temperature != 0 {
		eff.Temperature = cfg.Temperature
	}
	return eff
}

// SendMessage runs one full exchange with the caller's completion options
// merged over the service defaults. An empty sessionID creates a session
// first, titled after the user's opening text. Messages persisted before a
// later failure stay persisted; the conversation can be resumed.
func (s *Service) SendMessage(ctx context.Context, sessionID, userText, userID string, cfg ai.Config) (reply, sid string, err error) {
	if strings.TrimSpace(userText) == "" {
		return "", "", fmt.Errorf("%w: message content required", common.ErrValidation)
	}

	if sessionID == "" {
		sess, err := s.store.CreateSession(ctx, userID)
		if err != nil {
			return "", "", err
		}
		sessionID = sess.SessionID
		if err := s.store.UpdateTitle(ctx, sessionID, deriveTitle(userText)); err != nil {
			return "", "", err
		}
	}

	if _, err := s.store.AppendMessage(ctx, sessionID, RoleUser, userText, userID); err != nil {
		return "", "", err
	}

	// window covers the new user message plus the turns preceding it
	recent, err := s.store.ListRecentMessages(ctx, sessionID, s.contextWindowSize+1)
	if err != nil {
		return "", "", err
	}

	msgs := make([]ai.Message, 0, len(recent)+1)
	msgs = append(msgs, ai.Message{Role: string(RoleSystem), Content: systemPrompt})
	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		msgs = append(msgs, ai.Message{Role: string(m.Role), Content: m.Content})
	}

	record := func(name, serializedArgs string) error {
		content := fmt.Sprintf("Function %s called with args: %s", name, serializedArgs)
		_, err := s.store.AppendMessage(ctx, sessionID, RoleFunction, content, userID)
		return err
	}

	reply, _, err = s.runTurn(ctx, msgs, s.effectiveConfig(cfg), record)
	if err != nil {
		return "", "", err
	}

	if _, err := s.store.AppendMessage(ctx, sessionID, RoleAssistant, reply, userID); err != nil {
		return "", "", err
	}
	return reply, sessionID, nil
}

// Complete runs the completion round trip without touching storage. The
// request boundary uses it for stateless completion calls.
func (s *Service) Complete(ctx context.Context, msgs []ai.Message, cfg ai.Config) (string, *ToolCallResult, error) {
	return s.runTurn(ctx, msgs, cfg, nil)
}

// runTurn advances the turn state machine. record, when non-nil, persists
// the tool invocation before the second completion call is made.
func (s *Service) runTurn(ctx context.Context, msgs []ai.Message, cfg ai.Config, record func(name, serializedArgs string) error) (string, *ToolCallResult, error) {
	state := stateAwaitingCompletion
	var reply string
	var toolResult *ToolCallResult

	for state != stateDone {
		comp, err := s.provider.Complete(ctx, msgs, cfg)
		if err != nil {
			return "", nil, err
		}

		if comp.ToolCall == nil || state == stateAwaitingToolResult {
			reply = comp.Content
			state = stateDone
			continue
		}

		state = stateAwaitingToolResult
		call := comp.ToolCall

		result, err := s.tools.Execute(ctx, call.Name, call.Args)
		if err != nil {
			// tool failure is non-fatal; the model sees an empty result
			result = map[string]any{"error": err.Error()}
		}

		if record != nil {
			if err := record(call.Name, call.Arguments); err != nil {
				return "", nil, err
			}
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			return "", nil, err
		}

		msgs = append(msgs,
			ai.Message{Role: string(RoleAssistant), FunctionCall: &ai.FunctionCall{Name: call.Name, Arguments: call.Arguments}},
			ai.Message{Role: string(RoleFunction), Name: call.Name, Content: string(resultJSON)},
		)
		toolResult = &ToolCallResult{Name: call.Name, Args: call.Args, Result: result}

		// second leg never offers the tool schema again
		cfg.Functions = false
	}

	return reply, toolResult, nil
}

const maxTitleLen = 60

// deriveTitle labels a fresh session with its opening user text.
func deriveTitle(userText string) string {
	t := strings.TrimSpace(userText)
	if t == "" {
		return defaultSessionTitle
	}
	if utf8.RuneCountInString(t) > maxTitleLen {
		runes := []rune(t)
		t = string(runes[:maxTitleLen]) + "…"
	}
	return t
}
