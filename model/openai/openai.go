// Package openai adapts the OpenAI Chat Completions API (including
// function/tool calling) to the model.Model interface. One call to Generate
// performs one non-streaming completion and maps the first tool call, if
// any, to a normalized action request.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"

	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/model"
)

// Options configure the OpenAI model adapter. Fields mirror the subset of
// Chat Completion parameters this assistant needs.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind model.Model.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates an OpenAI model using the official client (API key from
// the environment).
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates an OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model with a single non-streaming completion.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if len(req.Actions) > 0 {
		params.Tools = buildTools(req.Actions)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &core.ModelError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &core.ModelError{Provider: "openai", Err: errNoChoices}
	}

	choice := resp.Choices[0]
	out := &model.Response{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
	}
	if len(choice.Message.ToolCalls) > 0 {
		tc := choice.Message.ToolCalls[0]
		out.ActionCall = &model.ActionCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return out, nil
}

// buildMessages converts the transcript into OpenAI chat messages. Action
// requests become assistant tool-call messages and action results become
// tool messages keyed by call id.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}
	for _, msg := range req.Messages {
		switch {
		case msg.Role == core.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case msg.Role == core.RoleAssistant && msg.IsActionCall():
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role: "assistant",
					ToolCalls: []openai.ChatCompletionMessageToolCallParam{{
						ID:   msg.CallID,
						Type: "function",
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      msg.Action,
							Arguments: msg.Arguments,
						},
					}},
				},
			})
		case msg.Role == core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case msg.Role == core.RoleAction:
			messages = append(messages, openai.ToolMessage(msg.Content, msg.CallID))
		}
	}
	return messages
}

// buildTools converts action definitions to OpenAI tool parameters.
func buildTools(actions []model.Definition) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, len(actions))
	for i, def := range actions {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  def.Parameters,
			},
		}
	}
	return tools
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai", SupportsActions: true}
}

var errNoChoices = errors.New("no choices returned")
