package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a transcript message.
type Role string

const (
	// RoleUser marks messages typed by the user.
	RoleUser Role = "user"
	// RoleAssistant marks model output, either a natural-language reply or
	// an action request.
	RoleAssistant Role = "assistant"
	// RoleAction marks the result of an executed (or rejected) action,
	// surfaced back to the model.
	RoleAction Role = "action"
)

// Message is one turn record in the conversation transcript. A message is
// immutable after it has been appended.
//
// Three shapes occur:
//   - user / assistant text: Content set, action fields empty
//   - assistant action request: Action, Arguments and CallID set
//   - action result: Role RoleAction, Content holds the human-readable
//     result, CallID pairs it with the originating request, IsError marks
//     validation or execution failures the model may correct
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content,omitempty"`
	CallID    string    `json:"call_id,omitempty"`
	Action    string    `json:"action,omitempty"`
	Arguments string    `json:"arguments,omitempty"`
	IsError   bool      `json:"is_error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewID generates a unique identifier for messages and turns.
func NewID() string { return uuid.NewString() }

func newMessage(role Role) Message {
	return Message{ID: NewID(), Role: role, Timestamp: time.Now().UTC()}
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	m := newMessage(RoleUser)
	m.Content = text
	return m
}

// NewAssistantMessage creates an assistant text reply.
func NewAssistantMessage(text string) Message {
	m := newMessage(RoleAssistant)
	m.Content = text
	return m
}

// NewActionCallMessage records the model requesting execution of a named
// action with serialized JSON arguments.
func NewActionCallMessage(callID, name, arguments string) Message {
	m := newMessage(RoleAssistant)
	m.CallID = callID
	m.Action = name
	m.Arguments = arguments
	return m
}

// NewActionResultMessage records the outcome of an action request. A non-nil
// err marks the result as correctable failure feedback for the model.
func NewActionResultMessage(callID, name, result string, err error) Message {
	m := newMessage(RoleAction)
	m.CallID = callID
	m.Action = name
	if err != nil {
		m.Content = err.Error()
		m.IsError = true
	} else {
		m.Content = result
	}
	return m
}

// IsActionCall reports whether the message is an assistant action request.
func (m Message) IsActionCall() bool {
	return m.Role == RoleAssistant && m.Action != ""
}
