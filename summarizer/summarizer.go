// Package summarizer compacts long conversation transcripts. When a
// session's message count crosses a threshold, the older portion is folded
// into the state's rolling summary and only a recent tail of messages is
// kept, so model context stays bounded while earlier facts survive as
// digest text.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/logging"
	"github.com/Blaqadonis/azaman/model"
)

const (
	// DefaultThreshold is the message count above which compaction runs.
	DefaultThreshold = 10
	// DefaultKeep is how many recent messages survive compaction.
	DefaultKeep = 4

	// fallbackLimit bounds the summary produced without a model.
	fallbackLimit = 1200
)

const freshPrompt = `Summarize the conversation below between a user and Aza Man, ` +
	`a personal finance assistant. Capture the user's name, income, savings goal, ` +
	`budget and logged expenses, plus any stated preferences or pending requests. ` +
	`Reply with the summary only.`

const extendPrompt = `Below is the running summary of a conversation between a user ` +
	`and Aza Man, a personal finance assistant, followed by newer messages. Extend ` +
	`the summary to cover the new messages. Keep the user's name, income, savings ` +
	`goal, budget and logged expenses accurate. Reply with the updated summary only.`

// Summarizer folds old messages into ConversationState.Summary.
type Summarizer struct {
	model     model.Model
	threshold int
	keep      int
	logger    logging.Logger
}

// Options configure a Summarizer.
type Options struct {
	// Threshold is the message count that triggers compaction.
	Threshold int
	// Keep is how many recent messages to retain.
	Keep int
	// Logger receives compaction events.
	Logger logging.Logger
}

// New constructs a Summarizer around m.
func New(m model.Model, optFns ...func(o *Options)) *Summarizer {
	opts := Options{
		Threshold: DefaultThreshold,
		Keep:      DefaultKeep,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Summarizer{model: m, threshold: opts.Threshold, keep: opts.Keep, logger: opts.Logger}
}

// Summarize compacts st's transcript when it exceeds the threshold. It
// reports whether compaction ran. A failed model call falls back to a
// deterministic digest rather than failing the turn, so the error return
// is reserved for future stores of side effects and is currently always
// nil.
func (s *Summarizer) Summarize(ctx context.Context, st *core.ConversationState) (bool, error) {
	if len(st.Messages) <= s.threshold {
		return false, nil
	}

	cut := len(st.Messages) - s.keep
	// Never let the kept tail open with an orphaned action result.
	for cut > 0 && st.Messages[cut].Role == core.RoleAction {
		cut--
	}
	if cut <= 0 {
		return false, nil
	}
	old := st.Messages[:cut]

	summary, err := s.digest(ctx, st.Summary, old)
	if err != nil {
		s.logger.Warn("summarizer.model_failed", "error", err.Error())
		summary = fallbackDigest(st.Summary, old)
	}

	tail := make([]core.Message, len(st.Messages)-cut)
	copy(tail, st.Messages[cut:])
	st.Summary = summary
	st.Messages = tail

	s.logger.Info("summarizer.compacted",
		"dropped", cut,
		"kept", len(tail),
		"summary_len", len(summary),
	)
	return true, nil
}

// digest asks the model for an updated summary covering old messages.
func (s *Summarizer) digest(ctx context.Context, existing string, old []core.Message) (string, error) {
	instructions := freshPrompt
	var b strings.Builder
	if existing != "" {
		instructions = extendPrompt
		b.WriteString("Summary so far:\n")
		b.WriteString(existing)
		b.WriteString("\n\nNew messages:\n")
	}
	b.WriteString(renderTranscript(old))

	resp, err := s.model.Generate(ctx, model.Request{
		Instructions: instructions,
		Messages:     []core.Message{core.NewUserMessage(b.String())},
	})
	if err != nil {
		return "", err
	}
	summary := strings.TrimSpace(resp.Text)
	if summary == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}
	return summary, nil
}

// renderTranscript flattens messages into plain text for the digest prompt.
func renderTranscript(messages []core.Message) string {
	var b strings.Builder
	for _, m := range messages {
		switch {
		case m.IsActionCall():
			fmt.Fprintf(&b, "Aza Man ran %s(%s)\n", m.Action, m.Arguments)
		case m.Role == core.RoleAction:
			fmt.Fprintf(&b, "Result of %s: %s\n", m.Action, m.Content)
		case m.Role == core.RoleUser:
			fmt.Fprintf(&b, "User: %s\n", m.Content)
		default:
			fmt.Fprintf(&b, "Aza Man: %s\n", m.Content)
		}
	}
	return b.String()
}

// fallbackDigest produces a bounded plain-text digest when no model is
// available. Newest lines win: the head is trimmed first because recent
// facts matter more to the next turn.
func fallbackDigest(existing string, old []core.Message) string {
	var lines []string
	if existing != "" {
		lines = append(lines, existing)
	}
	for _, m := range old {
		switch {
		case m.IsActionCall():
			// The result line carries the outcome; skip the request.
		case m.Role == core.RoleAction && !m.IsError:
			lines = append(lines, m.Content)
		case m.Role == core.RoleUser:
			lines = append(lines, "User said: "+m.Content)
		case m.Role == core.RoleAssistant && m.Content != "":
			lines = append(lines, "Aza Man said: "+m.Content)
		}
	}

	digest := strings.Join(lines, " ")
	runes := []rune(digest)
	if len(runes) > fallbackLimit {
		digest = string(runes[len(runes)-fallbackLimit:])
	}
	return digest
}
