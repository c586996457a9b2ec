// Package anthropic adapts the Anthropic Messages API to the model.Model
// interface. Tool-use blocks map to normalized action requests; action
// results return to the API as tool_result blocks in user messages.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/model"
)

// Options configure the Anthropic model adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind model.Model.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates an Anthropic model using the official client. An empty
// APIKey falls back to the SDK's environment lookup.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates an Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Generate implements model.Model with a single non-streaming message call.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(req.Messages),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if req.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
	}
	if len(req.Actions) > 0 {
		params.Tools = buildTools(req.Actions)
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &core.ModelError{Provider: "anthropic", Err: err}
	}

	out := &model.Response{FinishReason: "stop"}
	if resp.StopReason != "" {
		out.FinishReason = string(resp.StopReason)
	}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Text += block.AsText().Text
		case "tool_use":
			if out.ActionCall != nil {
				continue // one action per response; ignore extras
			}
			toolBlock := block.AsToolUse()
			args := ""
			if toolBlock.Input != nil {
				if argsBytes, err := json.Marshal(toolBlock.Input); err == nil {
					args = string(argsBytes)
				}
			}
			out.ActionCall = &model.ActionCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			}
		}
	}
	if out.Text == "" && out.ActionCall == nil {
		return nil, &core.ModelError{Provider: "anthropic", Err: errEmptyResponse}
	}
	return out, nil
}

// buildMessages converts the transcript into Anthropic message params.
// Assistant action requests become tool_use blocks; the paired action
// results follow as tool_result blocks inside user messages, as the
// Messages API requires.
func buildMessages(messages []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch {
		case msg.Role == core.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case msg.Role == core.RoleAssistant && msg.IsActionCall():
			var input any
			if msg.Arguments != "" {
				if err := json.Unmarshal([]byte(msg.Arguments), &input); err != nil {
					input = msg.Arguments
				}
			}
			out = append(out, anthropic.NewAssistantMessage(
				anthropic.NewToolUseBlock(msg.CallID, input, msg.Action),
			))
		case msg.Role == core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case msg.Role == core.RoleAction:
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(msg.CallID, msg.Content, msg.IsError),
			))
		}
	}
	return out
}

// buildTools converts action definitions to Anthropic tool params.
func buildTools(actions []model.Definition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(actions))
	for i, def := range actions {
		inputSchema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}
		if def.Parameters != nil {
			if properties, ok := def.Parameters["properties"]; ok {
				inputSchema.Properties = properties
			}
			inputSchema.Required = requiredNames(def.Parameters["required"])
		}
		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
	}
	return tools
}

func requiredNames(required any) []string {
	switch req := required.(type) {
	case []string:
		return req
	case []any:
		names := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
		return names
	default:
		return nil
	}
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: string(m.opts.Model), Provider: "anthropic", SupportsActions: true}
}

var errEmptyResponse = errors.New("empty response content")
