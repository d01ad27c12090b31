package ai

import "context"

// Message is one entry of the outbound completion request, oldest first.
// Name and FunctionCall are only set on the second leg of a tool round
// trip, mirroring the provider's wire format.
type Message struct {
	Role         string        `json:"role"`
	Content      string        `json:"content"`
	Name         string        `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// FunctionCall is the provider's serialized tool-call request.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FunctionDefinition describes one callable tool in the provider schema.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

const (
	DefaultModel       = "gpt-4.1-nano"
	DefaultTemperature = 0.7
)

// Config carries the recognized completion options. A zero Model or
// Temperature falls back to the defaults above.
type Config struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	// Functions permits the provider to request a tool call.
	Functions bool `json:"functions"`
	// SaveHistory controls whether a boundary request is persisted through
	// the conversation service; nil means true.
	SaveHistory *bool `json:"saveHistory"`
}

func (c Config) ModelOrDefault() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

func (c Config) TemperatureOrDefault() float64 {
	if c.Temperature == 0 {
		return DefaultTemperature
	}
	return c.Temperature
}

func (c Config) SaveHistoryEnabled() bool {
	return c.SaveHistory == nil || *c.SaveHistory
}

// ToolCall is a parsed tool-call request the caller must resolve before a
// final answer is obtainable.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
	// Arguments keeps the provider's raw serialization for echoing back.
	Arguments string `json:"-"`
}

// Completion is the gateway result: plain text, or a tool-call request.
type Completion struct {
	Content  string
	ToolCall *ToolCall
}

// Provider translates an internal message list into one provider completion
// round trip. No retries; failures propagate unchanged.
type Provider interface {
	Complete(ctx context.Context, messages []Message, cfg Config) (*Completion, error)
}
