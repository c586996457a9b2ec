package summarizer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/model"
)

func chatState(n int) *core.ConversationState {
	st := core.NewState("")
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			st.AppendMessage(core.NewUserMessage(fmt.Sprintf("user message %d", i)))
		} else {
			st.AppendMessage(core.NewAssistantMessage(fmt.Sprintf("reply %d", i)))
		}
	}
	return st
}

func TestBelowThresholdIsUntouched(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	s := New(mock)

	st := chatState(10)
	ran, err := s.Summarize(context.Background(), st)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Len(t, st.Messages, 10)
	assert.Empty(t, st.Summary)
	assert.Empty(t, mock.Requests())
}

func TestCompactsToRecentTail(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.EnqueueText("Ada earns 500000 NGN and saves 100000.")
	s := New(mock)

	st := chatState(12)
	lastFour := append([]core.Message{}, st.Messages[8:]...)

	ran, err := s.Summarize(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "Ada earns 500000 NGN and saves 100000.", st.Summary)
	assert.Equal(t, lastFour, st.Messages)

	// The digest request carries the dropped messages, not the kept tail.
	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 1)
	assert.Contains(t, reqs[0].Messages[0].Content, "user message 0")
	assert.NotContains(t, reqs[0].Messages[0].Content, "user message 8")
}

func TestExtendsExistingSummary(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.EnqueueText("updated summary")
	s := New(mock)

	st := chatState(12)
	st.Summary = "Ada earns 500000 NGN."

	ran, err := s.Summarize(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "updated summary", st.Summary)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Instructions, "Extend")
	assert.Contains(t, reqs[0].Messages[0].Content, "Ada earns 500000 NGN.")
}

func TestModelFailureFallsBackToDigest(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.EnqueueError(&core.ModelError{Provider: "test", Err: errors.New("timeout")})
	s := New(mock)

	st := chatState(12)
	ran, err := s.Summarize(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, st.Messages, 4)
	assert.Contains(t, st.Summary, "user message 0")
}

func TestEmptyModelReplyFallsBackToDigest(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.EnqueueText("   ")
	s := New(mock)

	st := chatState(12)
	ran, err := s.Summarize(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.NotEmpty(t, st.Summary)
}

func TestTailNeverOpensWithActionResult(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.EnqueueText("summary")
	s := New(mock, func(o *Options) { o.Keep = 3 })

	st := chatState(8)
	st.AppendMessage(core.NewActionCallMessage("call-1", "log_expense", `{"description":"food","amount":100}`))
	st.AppendMessage(core.NewActionResultMessage("call-1", "log_expense", "Expense logged!", nil))
	st.AppendMessage(core.NewUserMessage("thanks"))
	st.AppendMessage(core.NewAssistantMessage("anytime"))
	// 12 messages; a naive cut at len-3 would start the tail on the result.

	ran, err := s.Summarize(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, ran)
	require.Len(t, st.Messages, 4)
	assert.True(t, st.Messages[0].IsActionCall())
}

func TestCustomThresholdAndKeep(t *testing.T) {
	mock := model.NewMockModel("mock", "test")
	mock.EnqueueText("summary")
	s := New(mock, func(o *Options) {
		o.Threshold = 4
		o.Keep = 2
	})

	st := chatState(6)
	ran, err := s.Summarize(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, st.Messages, 2)
}
