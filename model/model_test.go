package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blaqadonis/azaman/core"
)

func TestMockModelScriptOrder(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.EnqueueActionCall("budget", `{"income":100}`)
	m.EnqueueText("done")
	m.EnqueueError(errors.New("boom"))

	ctx := context.Background()
	req := Request{Messages: []core.Message{core.NewUserMessage("hi")}}

	resp, err := m.Generate(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, resp.ActionCall)
	assert.Equal(t, "budget", resp.ActionCall.Name)
	assert.NotEmpty(t, resp.ActionCall.ID)

	resp, err = m.Generate(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, resp.ActionCall)
	assert.Equal(t, "done", resp.Text)

	_, err = m.Generate(ctx, req)
	assert.EqualError(t, err, "boom")
}

func TestMockModelCannedAndEchoFallback(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.AddResponse("hello", "hi there")

	ctx := context.Background()

	resp, err := m.Generate(ctx, Request{Messages: []core.Message{core.NewUserMessage("hello")}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text)

	resp, err = m.Generate(ctx, Request{Messages: []core.Message{core.NewUserMessage("anything else")}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything else", resp.Text)
}

func TestMockModelRecordsRequests(t *testing.T) {
	m := NewMockModel("mock", "test")
	ctx := context.Background()

	_, err := m.Generate(ctx, Request{Instructions: "first"})
	require.NoError(t, err)
	_, err = m.Generate(ctx, Request{Instructions: "second"})
	require.NoError(t, err)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "first", reqs[0].Instructions)
	assert.Equal(t, "second", reqs[1].Instructions)
}

func TestMockModelHonorsCancelledContext(t *testing.T) {
	m := NewMockModel("mock", "test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
