package openaicompat

import (
	"bytes"
	"encoding/json"
)

// ChatMessage is a single chat turn. Role is free-form ("system", "user",
// "assistant", ...).
type ChatMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content holds a message body as raw JSON. It is either a JSON string or a
// structured value such as an array of content parts.
type Content json.RawMessage

// Text builds plain string content.
func Text(s string) Content {
	b, _ := json.Marshal(s)
	return Content(b)
}

// Parts builds structured content from a list of parts.
func Parts(parts ...ContentPart) Content {
	b, _ := json.Marshal(parts)
	return Content(b)
}

// ContentPart is one element of structured content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL points at an image, usually a data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// Text returns the content as a string when it is a JSON string.
func (c Content) Text() (string, bool) {
	var s string
	trimmed := bytes.TrimSpace(c)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// Parts decodes array content. ok is false for any other shape.
func (c Content) Parts() ([]ContentPart, bool) {
	trimmed := bytes.TrimSpace(c)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var parts []ContentPart
	if err := json.Unmarshal(trimmed, &parts); err != nil {
		return nil, false
	}
	return parts, true
}

// IsNull reports whether the content is absent or JSON null.
func (c Content) IsNull() bool {
	trimmed := bytes.TrimSpace(c)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (c Content) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

func (c *Content) UnmarshalJSON(b []byte) error {
	*c = append((*c)[:0], b...)
	return nil
}
