package openaicompat

import (
	"encoding/json"
	"strings"
)

// ChatRequest is the wire body sent to the chat completions endpoint.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the part of a chat completions response we read.
// Only the first choice is consulted.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage is an assistant message. Image-capable models may put
// generated images into Images instead of Content.
type ResponseMessage struct {
	Role    string      `json:"role"`
	Content Content     `json:"content"`
	Images  []ImageItem `json:"images,omitempty"`
}

type ImageItem struct {
	Type     string    `json:"type"`
	ImageURL *ImageURL `json:"image_url"`
}

// responseEnvelope keeps message as raw JSON so we can tell a missing or
// null message apart from an empty one.
type responseEnvelope struct {
	Choices []struct {
		Message json.RawMessage `json:"message"`
	} `json:"choices"`
}

// ExtractImageURL finds a generated image in msg. It checks, in order,
// message.images[0].image_url.url, a data:image string content, and the
// first image_url part of array content.
func ExtractImageURL(msg ResponseMessage) (string, bool) {
	if len(msg.Images) > 0 && msg.Images[0].ImageURL != nil && msg.Images[0].ImageURL.URL != "" {
		return msg.Images[0].ImageURL.URL, true
	}

	if text, ok := msg.Content.Text(); ok && strings.HasPrefix(text, "data:image") {
		return text, true
	}

	if parts, ok := msg.Content.Parts(); ok {
		for _, part := range parts {
			if part.Type == "image_url" && part.ImageURL != nil && part.ImageURL.URL != "" {
				return part.ImageURL.URL, true
			}
		}
	}

	return "", false
}
