package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockCommand struct {
	name string
}

func (m *mockCommand) Name() string { return m.name }

func (m *mockCommand) Invoke(ctx context.Context, raw json.RawMessage) (any, error) {
	return m.name, nil
}

func TestRegistry_RegisterAndInvoke(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockCommand{name: "ping"}))

	got, err := r.Invoke(context.Background(), "ping", nil)
	require.NoError(t, err)
	require.Equal(t, "ping", got)
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := NewRegistry()
	require.Error(t, r.Register(nil))
	require.Error(t, r.Register(&mockCommand{name: "  "}))
	require.NoError(t, r.Register(&mockCommand{name: "ping"}))
	require.Error(t, r.Register(&mockCommand{name: "ping"}), "duplicate")
}

func TestRegistry_UnknownCommand(t *testing.T) {
	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "nope", nil)
	require.EqualError(t, err, "command nope not found")
	require.Equal(t, KindUnknownCommand, Classify(err))
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockCommand{name: "speak"})
	_ = r.Register(&mockCommand{name: "chat_completion"})
	_ = r.Register(&mockCommand{name: "play_audio_wav"})
	require.Equal(t, []string{"chat_completion", "play_audio_wav", "speak"}, r.Names())
}
