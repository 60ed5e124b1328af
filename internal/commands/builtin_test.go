package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpay/deskpet/internal/audio"
	"github.com/rpay/deskpet/internal/imageload"
	"github.com/rpay/deskpet/internal/tts"
	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

type fakeCompleter struct {
	apiURL, apiKey, model string
	messages              []openaicompat.ChatMessage
	reply                 string
	err                   error
}

func (f *fakeCompleter) ChatCompletion(_ context.Context, apiURL, apiKey, model string, messages []openaicompat.ChatMessage) (string, error) {
	f.apiURL, f.apiKey, f.model, f.messages = apiURL, apiKey, model, messages
	return f.reply, f.err
}

type fakePlayer struct {
	played [][]byte
	err    error
}

func (f *fakePlayer) PlayWAV(data []byte) error {
	f.played = append(f.played, data)
	return f.err
}

type fakeSynth struct {
	text, character string
	wav             []byte
	err             error
}

func (f *fakeSynth) Synthesize(_ context.Context, text, character string) ([]byte, error) {
	f.text, f.character = text, character
	return f.wav, f.err
}

func newTestRegistry(t *testing.T, c Completer, p WAVPlayer, s Synthesizer) *Registry {
	t.Helper()
	r, err := NewDefault(c, imageload.ReadImageBase64, p, s)
	require.NoError(t, err)
	return r
}

func TestNewDefault_RegistersCommands(t *testing.T) {
	r := newTestRegistry(t, &fakeCompleter{}, &fakePlayer{}, &fakeSynth{})
	require.Equal(t, []string{"chat_completion", "play_audio_wav", "read_image_base64", "speak"}, r.Names())
}

func TestChatCompletion_Invoke(t *testing.T) {
	c := &fakeCompleter{reply: "喵"}
	r := newTestRegistry(t, c, &fakePlayer{}, &fakeSynth{})

	got, err := r.Invoke(context.Background(), "chat_completion", []byte(`{
		"apiUrl": "https://openrouter.ai/api/",
		"apiKey": "sk-or",
		"model": "stepfun/step-3.5-flash:free",
		"messages": [{"role":"system","content":"你是一只桌面宠物"},{"role":"user","content":[{"type":"text","text":"hi"}]}]
	}`))
	require.NoError(t, err)
	require.Equal(t, "喵", got)
	require.Equal(t, "https://openrouter.ai/api/", c.apiURL)
	require.Equal(t, "sk-or", c.apiKey)
	require.Equal(t, "stepfun/step-3.5-flash:free", c.model)
	require.Len(t, c.messages, 2)
	text, ok := c.messages[0].Content.Text()
	require.True(t, ok)
	require.Equal(t, "你是一只桌面宠物", text)
	_, ok = c.messages[1].Content.Parts()
	require.True(t, ok)
}

func TestChatCompletion_MissingArgs(t *testing.T) {
	r := newTestRegistry(t, &fakeCompleter{}, &fakePlayer{}, &fakeSynth{})

	_, err := r.Invoke(context.Background(), "chat_completion", []byte(`{"apiUrl":"x","model":"m"}`))
	require.Error(t, err)
	require.Equal(t, KindInvalidArgs, Classify(err))
	require.Contains(t, err.Error(), "apiKey")
	require.Contains(t, err.Error(), "messages")

	_, err = r.Invoke(context.Background(), "chat_completion", []byte(`[1,2]`))
	require.Equal(t, KindInvalidArgs, Classify(err))
}

func TestChatCompletion_EmptyStringsAllowed(t *testing.T) {
	c := &fakeCompleter{reply: "ok"}
	r := newTestRegistry(t, c, &fakePlayer{}, &fakeSynth{})

	_, err := r.Invoke(context.Background(), "chat_completion", []byte(`{"apiUrl":"","apiKey":"","model":"","messages":[]}`))
	require.NoError(t, err)
	require.NotNil(t, c.messages)
	require.Empty(t, c.messages)
}

func TestReadImage_Invoke(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet.JPG")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))
	r := newTestRegistry(t, &fakeCompleter{}, &fakePlayer{}, &fakeSynth{})

	got, err := r.Invoke(context.Background(), "read_image_base64", []byte(fmt.Sprintf(`{"path":%q}`, path)))
	require.NoError(t, err)
	require.Equal(t, "data:image/jpeg;base64,aGk=", got)

	_, err = r.Invoke(context.Background(), "read_image_base64", []byte(`{"path":"/definitely/missing.png"}`))
	require.Error(t, err)
	require.Equal(t, KindIO, Classify(err))
}

func TestPlayAudio_Invoke(t *testing.T) {
	p := &fakePlayer{}
	r := newTestRegistry(t, &fakeCompleter{}, p, &fakeSynth{})

	got, err := r.Invoke(context.Background(), "play_audio_wav", []byte(`{"bytes":[82,73,70,70]}`))
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = r.Invoke(context.Background(), "play_audio_wav", []byte(`{"bytes":"UklGRg=="}`))
	require.NoError(t, err)

	require.Equal(t, [][]byte{[]byte("RIFF"), []byte("RIFF")}, p.played)
}

func TestPlayAudio_BadBytes(t *testing.T) {
	r := newTestRegistry(t, &fakeCompleter{}, &fakePlayer{}, &fakeSynth{})

	for _, args := range []string{`{"bytes":[1,256]}`, `{"bytes":"***"}`, `{"bytes":{"a":1}}`, `{}`} {
		_, err := r.Invoke(context.Background(), "play_audio_wav", []byte(args))
		require.Equal(t, KindInvalidArgs, Classify(err), "args=%s err=%v", args, err)
	}
}

func TestPlayAudio_PlayerErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{fmt.Errorf("%w: riff", audio.ErrDecode), KindAudioDecode},
		{fmt.Errorf("%w: no device", audio.ErrDevice), KindDevice},
		{fmt.Errorf("%w: boom", audio.ErrWorker), KindWorker},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			r := newTestRegistry(t, &fakeCompleter{}, &fakePlayer{err: tc.err}, &fakeSynth{})
			_, err := r.Invoke(context.Background(), "play_audio_wav", []byte(`{"bytes":[]}`))
			require.Equal(t, tc.kind, Classify(err))
			require.Equal(t, tc.err.Error(), err.Error())
		})
	}
}

func TestSpeak_Invoke(t *testing.T) {
	p := &fakePlayer{}
	s := &fakeSynth{wav: []byte("RIFF")}
	r := newTestRegistry(t, &fakeCompleter{}, p, s)

	_, err := r.Invoke(context.Background(), "speak", []byte(`{"text":"早上好"}`))
	require.NoError(t, err)
	require.Equal(t, "早上好", s.text)
	require.Equal(t, "", s.character)
	require.Equal(t, [][]byte{[]byte("RIFF")}, p.played)
}

func TestSpeak_SynthErrors(t *testing.T) {
	p := &fakePlayer{}
	r := newTestRegistry(t, &fakeCompleter{}, p, &fakeSynth{err: errors.New("tts error 500: boom")})
	_, err := r.Invoke(context.Background(), "speak", []byte(`{"text":"hi"}`))
	require.EqualError(t, err, "tts error 500: boom")
	require.Equal(t, KindSpeech, Classify(err))
	require.Empty(t, p.played)

	r = newTestRegistry(t, &fakeCompleter{}, p, &fakeSynth{err: tts.ErrTextRequired})
	_, err = r.Invoke(context.Background(), "speak", []byte(`{"text":""}`))
	require.Equal(t, KindInvalidArgs, Classify(err))
}

func TestClassify_GatewayErrors(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{nil, ""},
		{&openaicompat.TransportError{Err: errors.New("dial tcp: refused")}, KindTransport},
		{&openaicompat.StatusError{StatusCode: 401, Body: "bad key"}, KindStatus},
		{&openaicompat.DecodeError{Err: errors.New("unexpected EOF")}, KindDecode},
		{openaicompat.ErrNoResponse, KindEmpty},
		{errors.New("something else"), KindInternal},
	}
	for _, tc := range cases {
		require.Equal(t, tc.kind, Classify(tc.err), "err=%v", tc.err)
	}
}
