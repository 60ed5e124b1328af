package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rpay/deskpet/internal/audio"
	"github.com/rpay/deskpet/internal/tts"
	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

// ErrorKind tags a failure. The error string seen by the shell does not
// depend on it.
type ErrorKind string

const (
	KindTransport      ErrorKind = "transport"
	KindStatus         ErrorKind = "status"
	KindDecode         ErrorKind = "decode"
	KindEmpty          ErrorKind = "empty"
	KindIO             ErrorKind = "io"
	KindAudioDecode    ErrorKind = "audio_decode"
	KindDevice         ErrorKind = "device"
	KindWorker         ErrorKind = "worker"
	KindSpeech         ErrorKind = "speech"
	KindInvalidArgs    ErrorKind = "invalid_args"
	KindUnknownCommand ErrorKind = "unknown_command"
	KindInternal       ErrorKind = "internal"
)

// ArgsError means the shell sent arguments the command cannot use.
type ArgsError struct {
	Command string
	Reason  string
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("invalid args for command %s: %s", e.Command, e.Reason)
}

type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %s not found", e.Name)
}

// speechError marks a failure of the speech service.
type speechError struct {
	err error
}

func (e *speechError) Error() string { return e.err.Error() }

func (e *speechError) Unwrap() error { return e.err }

// Classify maps err onto the error taxonomy. A nil error has no kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var (
		argsErr      *ArgsError
		unknownErr   *UnknownCommandError
		transportErr *openaicompat.TransportError
		statusErr    *openaicompat.StatusError
		decodeErr    *openaicompat.DecodeError
		speechErr    *speechError
		pathErr      *fs.PathError
	)

	switch {
	case errors.As(err, &argsErr), errors.Is(err, tts.ErrTextRequired):
		return KindInvalidArgs
	case errors.As(err, &unknownErr):
		return KindUnknownCommand
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.Is(err, openaicompat.ErrNoResponse):
		return KindEmpty
	case errors.Is(err, audio.ErrDecode):
		return KindAudioDecode
	case errors.Is(err, audio.ErrDevice):
		return KindDevice
	case errors.Is(err, audio.ErrWorker):
		return KindWorker
	case errors.As(err, &speechErr):
		return KindSpeech
	case errors.As(err, &pathErr):
		return KindIO
	default:
		return KindInternal
	}
}
