package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/anhtu-vn/gochat/internal/ai"
	"github.com/anhtu-vn/gochat/internal/tools"
)

// scriptedProvider returns canned completions in order and records every
// request it sees.
type scriptedProvider struct {
	script []*ai.Completion
	calls  [][]ai.Message
	cfgs   []ai.Config
}

func (p *scriptedProvider) Complete(ctx context.Context, messages []ai.Message, cfg ai.Config) (*ai.Completion, error) {
	_ = ctx
	p.calls = append(p.calls, append([]ai.Message(nil), messages...))
	p.cfgs = append(p.cfgs, cfg)
	next := p.script[0]
	p.script = p.script[1:]
	return next, nil
}

func newTestService(t *testing.T, prov ai.Provider, reg *tools.Registry, window int) (*Service, *Store) {
	t.Helper()
	store := NewStore(openTestDB(t))
	if reg == nil {
		reg = tools.NewRegistry()
	}
	svc := NewService(store, prov, reg, ai.Config{Model: "fake", Functions: true}, window)
	return svc, store
}

func TestSendMessage_WritesUserAndAssistant(t *testing.T) {
	prov := &scriptedProvider{script: []*ai.Completion{{Content: "ok"}}}
	svc, store := newTestService(t, prov, nil, 5)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	reply, sid, err := svc.SendMessage(ctx, sess.SessionID, "Hello", "", ai.Config{})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if reply != "ok" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if sid != sess.SessionID {
		t.Fatalf("unexpected session id: %q", sid)
	}

	msgs, err := store.ListMessages(ctx, sess.SessionID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "Hello" {
		t.Fatalf("unexpected user msg: %+v", msgs[0])
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Content != "ok" {
		t.Fatalf("unexpected assistant msg: %+v", msgs[1])
	}
}

func TestSendMessage_CreatesSessionWhenMissing(t *testing.T) {
	prov := &scriptedProvider{script: []*ai.Completion{{Content: "hi"}}}
	svc, store := newTestService(t, prov, nil, 5)
	ctx := context.Background()

	_, sid, err := svc.SendMessage(ctx, "", "What is the weather like today?", "u9", ai.Config{})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if sid == "" {
		t.Fatalf("expected a fresh session id")
	}

	sess, err := store.GetSession(ctx, sid)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Title != "What is the weather like today?" {
		t.Fatalf("expected title from opening text, got %q", sess.Title)
	}
	if sess.UserID != "u9" {
		t.Fatalf("expected owner tag, got %q", sess.UserID)
	}
}

func TestSendMessage_CallerConfigOverridesDefaults(t *testing.T) {
	prov := &scriptedProvider{script: []*ai.Completion{{Content: "ok"}, {Content: "ok"}}}
	svc, store := newTestService(t, prov, nil, 5)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, _, err := svc.SendMessage(ctx, sess.SessionID, "Hello", "", ai.Config{Model: "gpt-4o", Temperature: 0.9}); err != nil {
		t.Fatalf("send message: %v", err)
	}
	got := prov.cfgs[0]
	if got.Model != "gpt-4o" {
		t.Fatalf("provider saw model %q, want caller's", got.Model)
	}
	if got.Temperature != 0.9 {
		t.Fatalf("provider saw temperature %v, want caller's", got.Temperature)
	}
	if !got.Functions {
		t.Fatalf("tool availability must stay server-gated")
	}

	// unset fields fall back to the service defaults
	if _, _, err := svc.SendMessage(ctx, sess.SessionID, "again", "", ai.Config{}); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if prov.cfgs[1].Model != "fake" {
		t.Fatalf("provider saw model %q, want service default", prov.cfgs[1].Model)
	}
}

func TestSendMessage_RejectsEmptyText(t *testing.T) {
	prov := &scriptedProvider{}
	svc, _ := newTestService(t, prov, nil, 5)

	if _, _, err := svc.SendMessage(context.Background(), "", "   ", "", ai.Config{}); err == nil {
		t.Fatalf("expected validation error for blank text")
	}
	if len(prov.calls) != 0 {
		t.Fatalf("provider should not be called on invalid input")
	}
}

func TestSendMessage_UsesContextWindow(t *testing.T) {
	window := 3
	prov := &scriptedProvider{script: []*ai.Completion{{Content: "ok"}}}
	svc, store := newTestService(t, prov, nil, window)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	for i := 0; i < 5; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		if _, err := store.AppendMessage(ctx, sess.SessionID, role, "seed", ""); err != nil {
			t.Fatalf("seed msg %d: %v", i, err)
		}
	}

	if _, _, err := svc.SendMessage(ctx, sess.SessionID, "new", "", ai.Config{}); err != nil {
		t.Fatalf("send message: %v", err)
	}

	// system prompt + window preceding messages + the new user message
	got := prov.calls[0]
	if len(got) != window+2 {
		t.Fatalf("expected provider to receive %d messages, got %d", window+2, len(got))
	}
	if got[0].Role != string(RoleSystem) {
		t.Fatalf("expected leading system prompt, got role=%q", got[0].Role)
	}
	last := got[len(got)-1]
	if last.Role != string(RoleUser) || last.Content != "new" {
		t.Fatalf("expected trailing new user msg, got role=%q content=%q", last.Role, last.Content)
	}
}

func TestSendMessage_ToolCallRoundTrip(t *testing.T) {
	prov := &scriptedProvider{script: []*ai.Completion{
		{ToolCall: &ai.ToolCall{
			Name:      "search_web",
			Args:      map[string]any{"query": "weather in Hanoi"},
			Arguments: `{"query":"weather in Hanoi"}`,
		}},
		{Content: "It is sunny in Hanoi."},
	}}

	var gotQuery string
	reg := tools.NewRegistry()
	reg.Register(tools.SearchWebDefinition(), func(ctx context.Context, args map[string]any) any {
		gotQuery, _ = args["query"].(string)
		return tools.SearchResult{
			Results:      []tools.SearchItem{{Title: "Hanoi weather", Link: "https://example.com", Snippet: "sunny"}},
			TotalResults: 1,
		}
	})

	svc, store := newTestService(t, prov, reg, 5)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	reply, _, err := svc.SendMessage(ctx, sess.SessionID, "weather?", "", ai.Config{})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if reply != "It is sunny in Hanoi." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if gotQuery != "weather in Hanoi" {
		t.Fatalf("executor got query %q", gotQuery)
	}

	msgs, err := store.ListMessages(ctx, sess.SessionID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected user+function+assistant, got %d messages", len(msgs))
	}
	if msgs[1].Role != RoleFunction {
		t.Fatalf("expected function message second, got %q", msgs[1].Role)
	}
	if !strings.Contains(msgs[1].Content, "search_web") || !strings.Contains(msgs[1].Content, "weather in Hanoi") {
		t.Fatalf("function message does not encode the invocation: %q", msgs[1].Content)
	}

	if len(prov.calls) != 2 {
		t.Fatalf("expected exactly two completion calls, got %d", len(prov.calls))
	}
	// second leg carries the tool result and must not offer the schema again
	second := prov.calls[1]
	lastMsg := second[len(second)-1]
	if lastMsg.Role != string(RoleFunction) || lastMsg.Name != "search_web" {
		t.Fatalf("expected trailing function result, got role=%q name=%q", lastMsg.Role, lastMsg.Name)
	}
	if !strings.Contains(lastMsg.Content, "Hanoi weather") {
		t.Fatalf("function result not forwarded: %q", lastMsg.Content)
	}
	if prov.cfgs[1].Functions {
		t.Fatalf("tool schema must not be offered on the second leg")
	}
}

func TestComplete_StatelessReportsFunctionCall(t *testing.T) {
	prov := &scriptedProvider{script: []*ai.Completion{
		{ToolCall: &ai.ToolCall{
			Name:      "search_web",
			Args:      map[string]any{"query": "go releases"},
			Arguments: `{"query":"go releases"}`,
		}},
		{Content: "Go 1.25 is out."},
	}}

	reg := tools.NewRegistry()
	reg.Register(tools.SearchWebDefinition(), func(ctx context.Context, args map[string]any) any {
		return tools.SearchResult{Results: []tools.SearchItem{}, TotalResults: 0}
	})

	svc, _ := newTestService(t, prov, reg, 5)

	reply, call, err := svc.Complete(context.Background(), []ai.Message{
		{Role: "user", Content: "any go releases?"},
	}, ai.Config{Functions: true})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "Go 1.25 is out." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if call == nil || call.Name != "search_web" {
		t.Fatalf("expected reported function call, got %+v", call)
	}
}
