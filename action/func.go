package action

import (
	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/internal/schema"
)

// FuncAction adapts a plain Go function into an Action. It holds the
// declared parameter schema, validates model-supplied arguments against it
// before execution, and delegates semantic checks plus the mutation to the
// wrapped function. A FuncAction has no mutable state after construction
// and is safe for concurrent use.
type FuncAction struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(st *core.ConversationState, args map[string]any) (string, error)
}

// NewFuncAction constructs a FuncAction from an explicit schema and function.
func NewFuncAction(
	name, description string,
	parameters map[string]any,
	fn func(st *core.ConversationState, args map[string]any) (string, error),
) *FuncAction {
	return &FuncAction{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the unique action name used in definitions and routing.
func (a *FuncAction) Name() string { return a.name }

// Description returns the description exposed to models.
func (a *FuncAction) Description() string { return a.description }

// Parameters returns the JSON schema describing expected arguments.
func (a *FuncAction) Parameters() map[string]any { return a.parameters }

// Apply validates args against the declared schema then invokes the wrapped
// function. State is never touched when validation fails.
func (a *FuncAction) Apply(st *core.ConversationState, args map[string]any) (string, error) {
	if err := schema.Validate(args, a.parameters); err != nil {
		return "", err
	}
	return a.fn(st, args)
}
