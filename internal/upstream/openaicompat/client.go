package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const chatCompletionsPath = "/v1/chat/completions"

// DefaultImagePrompt asks the image model to turn a photo into a pet sprite.
const DefaultImagePrompt = "请将输入图片转换为一张卡通小人图像"

var transport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     120 * time.Second,
}

// Upstream is the fixed provider used by Reply and GenerateImage.
// ChatCompletion ignores it and uses the per-call arguments instead.
type Upstream struct {
	BaseURL     string
	APIKey      string
	ChatModel   string
	ImageModel  string
	ImagePrompt string
}

// Client talks to OpenAI-compatible chat completions endpoints.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	upstream   Upstream
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithUpstream(u Upstream) Option {
	return func(c *Client) {
		c.upstream = u
	}
}

// NewClient returns a Client. The HTTP client has no timeout; a call lasts
// as long as the upstream takes unless ctx is cancelled.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: transport},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.upstream.ImagePrompt == "" {
		c.upstream.ImagePrompt = DefaultImagePrompt
	}
	return c
}

// ChatURL strips trailing slashes from baseURL and appends the chat
// completions path.
func ChatURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + chatCompletionsPath
}

// ChatCompletion sends messages to <apiURL>/v1/chat/completions and returns
// the content of the first choice unmodified.
func (c *Client) ChatCompletion(ctx context.Context, apiURL, apiKey, model string, messages []ChatMessage) (string, error) {
	body, err := c.send(ctx, apiURL, apiKey, model, messages)
	if err != nil {
		return "", err
	}

	var parsed ChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &DecodeError{Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", ErrNoResponse
	}

	content, ok := parsed.Choices[0].Message.Content.Text()
	if !ok {
		return "", &DecodeError{Err: errors.New("invalid type for choices[0].message.content: expected a string")}
	}
	return content, nil
}

// Reply is the lenient variant used by the pet's own chat endpoint. It sends
// to the configured upstream and chat model, and returns the first choice's
// content as-is, string or structured. Missing or null content is "".
func (c *Client) Reply(ctx context.Context, messages []ChatMessage) (Content, error) {
	body, err := c.send(ctx, c.upstream.BaseURL, c.upstream.APIKey, c.upstream.ChatModel, messages)
	if err != nil {
		return nil, err
	}

	var parsed ChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(parsed.Choices) == 0 {
		return Text(""), nil
	}
	content := parsed.Choices[0].Message.Content
	if content.IsNull() {
		return Text(""), nil
	}
	return content, nil
}

// GenerateImage sends imageDataURI with the configured prompt to the image
// model and returns the URL (usually a data URI) of the generated image.
func (c *Client) GenerateImage(ctx context.Context, imageDataURI string) (string, error) {
	messages := []ChatMessage{{
		Role: "user",
		Content: Parts(
			ContentPart{Type: "text", Text: c.upstream.ImagePrompt},
			ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: imageDataURI}},
		),
	}}

	body, err := c.send(ctx, c.upstream.BaseURL, c.upstream.APIKey, c.upstream.ImageModel, messages)
	if err != nil {
		return "", err
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &DecodeError{Err: err}
	}
	if len(envelope.Choices) == 0 {
		return "", ErrNoMessage
	}
	raw := bytes.TrimSpace(envelope.Choices[0].Message)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrNoMessage
	}

	var msg ResponseMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", &DecodeError{Err: err}
	}

	imageURL, ok := ExtractImageURL(msg)
	if !ok {
		return "", &NoImageError{Raw: json.RawMessage(body)}
	}
	return imageURL, nil
}

// send posts one chat request and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, apiURL, apiKey, model string, messages []ChatMessage) ([]byte, error) {
	if messages == nil {
		messages = []ChatMessage{}
	}
	payload, err := json.Marshal(ChatRequest{Model: model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ChatURL(apiURL), bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			text = nil
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}
	return body, nil
}
