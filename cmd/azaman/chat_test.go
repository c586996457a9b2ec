package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blaqadonis/azaman/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Model.Provider = "mock"
	cfg.DataPath = filepath.Join(t.TempDir(), "azaman.db")
	return cfg
}

func TestChatReplRoundTrip(t *testing.T) {
	rt, err := newRuntime(testConfig(t))
	require.NoError(t, err)
	defer rt.Close()

	in := strings.NewReader("hello\nexit\n")
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), rt, "test", in, &out))

	assert.Contains(t, out.String(), "Aza Man is ready")
	assert.Contains(t, out.String(), "Aza Man: Mock response to: hello")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestChatSessionPersistsAcrossRuns(t *testing.T) {
	cfg := testConfig(t)

	rt, err := newRuntime(cfg)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), rt, "ada", strings.NewReader("remember me\n"), &out))
	require.NoError(t, rt.Close())

	rt2, err := newRuntime(cfg)
	require.NoError(t, err)
	defer rt2.Close()

	st, err := rt2.store.Load(context.Background(), "ada")
	require.NoError(t, err)
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "remember me", st.Messages[0].Content)
}

func TestBuildModelRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Provider = "bard"
	_, err := buildModel(cfg)
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "chat")
	assert.Contains(t, names, "sessions")
	assert.Contains(t, names, "reset")
}
