// Package action implements the registry of named, schema-validated
// state-mutating operations the model may invoke: set_username, budget,
// log_expense and math_tool. Arguments are validated against a declared
// schema before any mutation, so a failed action leaves state untouched.
package action

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/logging"
	"github.com/Blaqadonis/azaman/model"
)

// Action is a named, schema-validated operation over ConversationState.
//
// Implementations must:
//   - Validate arguments fully before mutating anything
//   - Leave state untouched when returning an error
//   - Return a human-readable result string surfaced back to the model
//   - Be pure computation: no I/O, no blocking
type Action interface {
	// Name returns the unique action identifier (snake_case).
	Name() string

	// Description returns the short description shown to the model.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Apply validates args against the schema and executes the action
	// against st. On success it returns the result string; on failure st
	// is unchanged and the error is a *core.ValidationError when the model
	// can correct it.
	Apply(st *core.ConversationState, args map[string]any) (string, error)
}

// Registry holds the callable actions in registration order.
type Registry struct {
	names   []string
	actions map[string]Action
	logger  logging.Logger
}

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{actions: make(map[string]Action), logger: opts.Logger}
}

// Register adds an action, replacing any previous action of the same name.
func (r *Registry) Register(a Action) {
	if _, exists := r.actions[a.Name()]; !exists {
		r.names = append(r.names, a.Name())
	}
	r.actions[a.Name()] = a
}

// Get returns the named action.
func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Definitions returns the model-facing schemas in registration order.
func (r *Registry) Definitions() []model.Definition {
	defs := make([]model.Definition, 0, len(r.names))
	for _, name := range r.names {
		a := r.actions[name]
		defs = append(defs, model.Definition{
			Name:        a.Name(),
			Description: a.Description(),
			Parameters:  a.Parameters(),
		})
	}
	return defs
}

// Execute decodes argsJSON, looks up the named action and applies it to st.
// Unknown actions and malformed argument payloads yield a ValidationError
// so the router can surface them to the model as correctable results.
func (r *Registry) Execute(st *core.ConversationState, name, argsJSON string) (string, error) {
	a, ok := r.actions[name]
	if !ok {
		return "", core.NewValidationError("name", name, fmt.Sprintf("unknown action %q", name))
	}

	args := map[string]any{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return "", core.NewValidationError("arguments", argsJSON, "arguments are not valid JSON")
		}
	}

	start := time.Now()
	result, err := a.Apply(st, args)
	if err != nil {
		r.logger.Warn("action.execute.failed", "action", name, "error", err.Error())
		return "", err
	}

	r.logger.Info("action.execute.success",
		"action", name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
