package main

import (
	"context"

	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

const systemPrompt = "你是一只桌面宠物，用简短可爱的语气回复。"

type completer interface {
	ChatCompletion(ctx context.Context, apiURL, apiKey, model string, messages []openaicompat.ChatMessage) (string, error)
}

// session keeps the running conversation with the pet.
type session struct {
	client completer
	apiURL string
	apiKey string
	model  string

	history []openaicompat.ChatMessage
}

func newSession(client completer, apiURL, apiKey, model string) *session {
	s := &session{client: client, apiURL: apiURL, apiKey: apiKey, model: model}
	s.reset()
	return s
}

func (s *session) reset() {
	s.history = []openaicompat.ChatMessage{
		{Role: "system", Content: openaicompat.Text(systemPrompt)},
	}
}

// send appends the user line, asks for a reply and keeps it on success.
// A failed turn leaves the history unchanged.
func (s *session) send(ctx context.Context, text string) (string, error) {
	messages := append(s.history, openaicompat.ChatMessage{Role: "user", Content: openaicompat.Text(text)})
	reply, err := s.client.ChatCompletion(ctx, s.apiURL, s.apiKey, s.model, messages)
	if err != nil {
		return "", err
	}
	s.history = append(messages, openaicompat.ChatMessage{Role: "assistant", Content: openaicompat.Text(reply)})
	return reply, nil
}
