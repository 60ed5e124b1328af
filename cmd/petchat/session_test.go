package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

type scriptedCompleter struct {
	replies []string
	err     error
	seen    [][]openaicompat.ChatMessage
}

func (c *scriptedCompleter) ChatCompletion(_ context.Context, _, _, _ string, messages []openaicompat.ChatMessage) (string, error) {
	c.seen = append(c.seen, append([]openaicompat.ChatMessage(nil), messages...))
	if c.err != nil {
		return "", c.err
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

func textOf(t *testing.T, m openaicompat.ChatMessage) string {
	t.Helper()
	s, ok := m.Content.Text()
	require.True(t, ok)
	return s
}

func TestSession_KeepsHistory(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"喵", "喵喵"}}
	s := newSession(c, "https://x", "k", "m")

	reply, err := s.send(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "喵", reply)

	_, err = s.send(context.Background(), "again")
	require.NoError(t, err)

	second := c.seen[1]
	require.Len(t, second, 4)
	require.Equal(t, "system", second[0].Role)
	require.Equal(t, systemPrompt, textOf(t, second[0]))
	require.Equal(t, "喵", textOf(t, second[2]))
	require.Equal(t, "again", textOf(t, second[3]))
	require.Len(t, s.history, 5)
}

func TestSession_FailedTurnDropped(t *testing.T) {
	c := &scriptedCompleter{err: errors.New("API error 500")}
	s := newSession(c, "https://x", "k", "m")

	_, err := s.send(context.Background(), "hi")
	require.Error(t, err)
	require.Len(t, s.history, 1)
}

func TestSession_Reset(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"喵"}}
	s := newSession(c, "https://x", "k", "m")
	_, err := s.send(context.Background(), "hi")
	require.NoError(t, err)

	s.reset()
	require.Len(t, s.history, 1)
	require.Equal(t, "system", s.history[0].Role)
}
