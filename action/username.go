package action

import (
	"fmt"
	"strings"

	"github.com/Blaqadonis/azaman/core"
)

// maxUsernameLen bounds set_username input.
const maxUsernameLen = 32

// NewSetUsername returns the set_username action. The name must be
// non-empty after trimming and at most maxUsernameLen runes.
func NewSetUsername() *FuncAction {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"username": map[string]any{
				"type":        "string",
				"description": "The user's preferred name",
				"maxLength":   maxUsernameLen,
			},
		},
		"required": []string{"username"},
	}

	return NewFuncAction(
		"set_username",
		"Set the user's name for this and future sessions",
		params,
		func(st *core.ConversationState, args map[string]any) (string, error) {
			name, _ := args["username"].(string)
			name = strings.TrimSpace(name)
			if name == "" {
				return "", core.NewValidationError("username", args["username"], "username cannot be empty")
			}

			st.Username = name
			return fmt.Sprintf("Username set to %s", name), nil
		},
	)
}
