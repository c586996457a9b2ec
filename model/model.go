package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/Blaqadonis/azaman/core"
)

// Definition declaratively exposes a callable action to the model.
// Parameters is a JSON Schema object (minimal subset).
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ActionCall is a structured action request surfaced by a provider,
// unified across vendors so the router needs no per-provider branching.
type ActionCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // JSON-encoded arguments
}

// Request is the normalized model input produced by the turn router.
type Request struct {
	Instructions string         // System prompt rendered from state
	Messages     []core.Message // Transcript (or summary digest + recent tail)
	Actions      []Definition   // Callable action schemas
}

// Response is the model's answer for one generation call: terminal text,
// or an action request, never both meaningfully at once. When ActionCall
// is set the router routes to action execution regardless of Text.
type Response struct {
	Text         string
	ActionCall   *ActionCall
	FinishReason string // "stop", "tool_use", "length", ...
}

// Info contains metadata about a model implementation.
type Info struct {
	Name            string `json:"name"`
	Provider        string `json:"provider"`
	SupportsActions bool   `json:"supports_actions"`
}

// Model is the minimal interface the turn router needs to drive generation.
// Generate must honor ctx cancellation and deadlines.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// MockModel is a scriptable in-memory Model for tests and offline demos.
// Responses are served from an ordered script first, then from canned
// prompt lookups, then from a deterministic echo.
type MockModel struct {
	info Info

	mu        sync.Mutex
	script    []scripted
	responses map[string]string
	requests  []Request
}

type scripted struct {
	resp *Response
	err  error
}

// NewMockModel constructs a MockModel with action support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider, SupportsActions: true},
		responses: make(map[string]string),
	}
}

// Enqueue appends a scripted response consumed by the next Generate call.
func (m *MockModel) Enqueue(resp Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{resp: &resp})
	return m
}

// EnqueueActionCall appends a scripted action request.
func (m *MockModel) EnqueueActionCall(name, arguments string) *MockModel {
	return m.Enqueue(Response{
		ActionCall:   &ActionCall{ID: core.NewID(), Name: name, Arguments: arguments},
		FinishReason: "tool_use",
	})
}

// EnqueueText appends a scripted terminal text reply.
func (m *MockModel) EnqueueText(text string) *MockModel {
	return m.Enqueue(Response{Text: text, FinishReason: "stop"})
}

// EnqueueError appends a scripted failure for the next Generate call.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
	return m
}

// AddResponse registers a canned completion keyed by the latest user message.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Requests returns a copy of every request seen, in call order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		if next.err != nil {
			return nil, next.err
		}
		return next.resp, nil
	}

	input := lastUserText(req.Messages)
	if canned, ok := m.responses[input]; ok {
		return &Response{Text: canned, FinishReason: "stop"}, nil
	}
	return &Response{Text: fmt.Sprintf("Mock response to: %s", input), FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

func lastUserText(messages []core.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == core.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
