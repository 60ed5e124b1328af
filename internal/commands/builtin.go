package commands

import (
	"context"
	"encoding/json"

	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

// Completer is the part of openaicompat.Client used by chat_completion.
type Completer interface {
	ChatCompletion(ctx context.Context, apiURL, apiKey, model string, messages []openaicompat.ChatMessage) (string, error)
}

type WAVPlayer interface {
	PlayWAV(data []byte) error
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, character string) ([]byte, error)
}

// --- chat_completion ---

type ChatCompletionArgs struct {
	APIURL   string                     `json:"apiUrl"`
	APIKey   string                     `json:"apiKey"`
	Model    string                     `json:"model"`
	Messages []openaicompat.ChatMessage `json:"messages"`
}

type ChatCompletion struct {
	Completer Completer
}

func (c *ChatCompletion) Name() string { return "chat_completion" }

func (c *ChatCompletion) Invoke(ctx context.Context, raw json.RawMessage) (any, error) {
	var args ChatCompletionArgs
	if err := decodeArgs(c.Name(), raw, &args, "apiUrl", "apiKey", "model", "messages"); err != nil {
		return nil, err
	}
	return c.Completer.ChatCompletion(ctx, args.APIURL, args.APIKey, args.Model, args.Messages)
}

// --- read_image_base64 ---

type ReadImageArgs struct {
	Path string `json:"path"`
}

type ReadImage struct {
	Read func(path string) (string, error)
}

func (c *ReadImage) Name() string { return "read_image_base64" }

func (c *ReadImage) Invoke(_ context.Context, raw json.RawMessage) (any, error) {
	var args ReadImageArgs
	if err := decodeArgs(c.Name(), raw, &args, "path"); err != nil {
		return nil, err
	}
	return c.Read(args.Path)
}

// --- play_audio_wav ---

type PlayAudioArgs struct {
	Bytes AudioBytes `json:"bytes"`
}

type PlayAudio struct {
	Player WAVPlayer
}

func (c *PlayAudio) Name() string { return "play_audio_wav" }

func (c *PlayAudio) Invoke(_ context.Context, raw json.RawMessage) (any, error) {
	var args PlayAudioArgs
	if err := decodeArgs(c.Name(), raw, &args, "bytes"); err != nil {
		return nil, err
	}
	return nil, c.Player.PlayWAV(args.Bytes)
}

// --- speak ---

type SpeakArgs struct {
	Text      string `json:"text"`
	Character string `json:"character"`
}

// Speak synthesizes text and plays the resulting clip.
type Speak struct {
	Synth  Synthesizer
	Player WAVPlayer
}

func (c *Speak) Name() string { return "speak" }

func (c *Speak) Invoke(ctx context.Context, raw json.RawMessage) (any, error) {
	var args SpeakArgs
	if err := decodeArgs(c.Name(), raw, &args, "text"); err != nil {
		return nil, err
	}
	wav, err := c.Synth.Synthesize(ctx, args.Text, args.Character)
	if err != nil {
		return nil, &speechError{err: err}
	}
	return nil, c.Player.PlayWAV(wav)
}

// NewDefault registers the standard command set.
func NewDefault(completer Completer, readImage func(string) (string, error), player WAVPlayer, synth Synthesizer) (*Registry, error) {
	r := NewRegistry()
	for _, c := range []Command{
		&ChatCompletion{Completer: completer},
		&ReadImage{Read: readImage},
		&PlayAudio{Player: player},
		&Speak{Synth: synth, Player: player},
	} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}
