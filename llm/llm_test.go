package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	kind        Kind
	Response    string
	Err         error
	CloseCalled bool
	LastPrompt  string
}

func (m *mockBackend) Kind() Kind        { return m.kind }
func (m *mockBackend) ModelName() string { return "mock-model" }
func (m *mockBackend) Generate(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	return m.Response, m.Err
}
func (m *mockBackend) Close() error {
	m.CloseCalled = true
	return nil
}

type mockProbe struct {
	kind    Kind
	Backend IBackend
	Err     error
	Called  bool
}

func (m *mockProbe) Kind() Kind { return m.kind }
func (m *mockProbe) Probe(ctx context.Context) (IBackend, error) {
	m.Called = true
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Backend, nil
}

func TestResolver_PrefersFirstProbe(t *testing.T) {
	ollama := &mockProbe{kind: KindOllama, Backend: &mockBackend{kind: KindOllama}}
	llama := &mockProbe{kind: KindLlamaCpp, Backend: &mockBackend{kind: KindLlamaCpp}}

	resolver := NewResolver(newTestLogger(), ollama, llama)
	assert.Equal(t, Uninitialized, resolver.State())

	client, err := resolver.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, KindOllama, client.Kind())
	assert.Equal(t, Ready, resolver.State())
	assert.Equal(t, KindOllama, resolver.Variant())
	assert.True(t, ollama.Called)
	assert.False(t, llama.Called)
}

func TestResolver_FallsBackToSecondProbe(t *testing.T) {
	ollama := &mockProbe{kind: KindOllama, Err: ErrNotRunning}
	llama := &mockProbe{kind: KindLlamaCpp, Backend: &mockBackend{kind: KindLlamaCpp}}

	client, err := Initialize(context.Background(), newTestLogger(), ollama, llama)

	require.NoError(t, err)
	assert.True(t, ollama.Called)
	assert.Equal(t, KindLlamaCpp, client.Kind())
}

func TestResolver_Unavailable(t *testing.T) {
	ollama := &mockProbe{kind: KindOllama, Err: ErrNotRunning}
	llama := &mockProbe{kind: KindLlamaCpp, Err: ErrModelFileMissing}

	resolver := NewResolver(newTestLogger(), ollama, llama)
	client, err := resolver.Resolve(context.Background())

	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.ErrorIs(t, err, ErrModelFileMissing)
	assert.Equal(t, Unavailable, resolver.State())

	ollama.Called = false
	client, err = resolver.Resolve(context.Background())
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, ollama.Called)
}

func TestResolver_NoProbes(t *testing.T) {
	client, err := Initialize(context.Background(), newTestLogger())

	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Ask(t *testing.T) {
	backend := &mockBackend{kind: KindOllama, Response: "  Use spot instances.\n"}
	client := &Client{Backend: backend, Logger: newTestLogger()}

	assert.True(t, client.Available())
	assert.Equal(t, "Use spot instances.", client.Ask(context.Background(), "tips"))
	assert.Equal(t, "tips", backend.LastPrompt)
}

func TestClient_Ask_EmptyPrompt(t *testing.T) {
	client := &Client{Backend: &mockBackend{kind: KindOllama, Response: "ok"}, Logger: newTestLogger()}

	assert.Equal(t, "ok", client.Ask(context.Background(), ""))
}

func TestClient_Ask_BackendError(t *testing.T) {
	client := &Client{Backend: &mockBackend{kind: KindLlamaCpp, Err: errors.New("connection reset")}, Logger: newTestLogger()}

	assert.Equal(t, "Error getting AI response: connection reset", client.Ask(context.Background(), "tips"))
}

func TestClient_Ask_Canceled(t *testing.T) {
	client := &Client{Backend: &mockBackend{kind: KindOllama, Err: ErrCanceled}, Logger: newTestLogger()}

	assert.Equal(t, "Error getting AI response: request cancelled", client.Ask(context.Background(), "tips"))
}

func TestClient_NilHandle(t *testing.T) {
	var client *Client

	assert.False(t, client.Available())
	assert.Equal(t, NotAvailableMessage, client.Ask(context.Background(), "tips"))
	assert.Equal(t, Kind(""), client.Kind())
	assert.Equal(t, "", client.ModelName())
	assert.NoError(t, client.Close())
}

func TestClient_Close(t *testing.T) {
	backend := &mockBackend{kind: KindLlamaCpp}
	client := &Client{Backend: backend}

	assert.NoError(t, client.Close())
	assert.True(t, backend.CloseCalled)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "probing", Probing.String())
	assert.Equal(t, "unavailable", Unavailable.String())
}
