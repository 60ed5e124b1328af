package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/rpay/deskpet/internal/commands"
	"github.com/rpay/deskpet/internal/config"
	"github.com/rpay/deskpet/internal/metrics"
	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

// Invoker runs a named command.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// PetUpstream is the fixed-provider side of the gateway.
type PetUpstream interface {
	Reply(ctx context.Context, messages []openaicompat.ChatMessage) (openaicompat.Content, error)
	GenerateImage(ctx context.Context, imageDataURI string) (string, error)
}

// Accounts registers and logs in users.
type Accounts interface {
	Register(username, password string) (string, error)
	Login(username, password string) (string, error)
}

type Handler struct {
	commands      Invoker
	pet           PetUpstream
	accounts      Accounts
	metrics       *metrics.Metrics
	logger        *log.Logger
	commandLogger *log.Logger
	limits        config.Limits
}

func NewHandler(cmds Invoker, pet PetUpstream, accounts Accounts, m *metrics.Metrics, logger, commandLogger *log.Logger, limits config.Limits) *Handler {
	return &Handler{
		commands:      cmds,
		pet:           pet,
		accounts:      accounts,
		metrics:       m,
		logger:        logger,
		commandLogger: commandLogger,
		limits:        limits,
	}
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "healthy", "service": "deskpet"}`))
}

type invokeResponse struct {
	Result any `json:"result"`
}

type invokeError struct {
	Error string             `json:"error"`
	Kind  commands.ErrorKind `json:"kind"`
}

// HandleInvoke handles POST /invoke/{command}. The body is the JSON args
// object; play_audio_wav also accepts a raw audio/wav body.
func (h *Handler) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("command")
	start := time.Now()

	args, err := h.readArgs(w, r, name)
	if err != nil {
		h.commandLogger.Printf("ERROR [%s] read args: %v", name, err)
		writeJSON(w, http.StatusBadRequest, invokeError{Error: err.Error(), Kind: commands.KindInvalidArgs})
		return
	}

	result, err := h.commands.Invoke(r.Context(), name, args)
	kind := commands.Classify(err)
	if kind != commands.KindUnknownCommand {
		h.metrics.Record(name, time.Since(start).Milliseconds(), err == nil)
	}

	if err != nil {
		h.commandLogger.Printf("ERROR [%s] kind=%s err=%v", name, kind, err)
		writeJSON(w, statusForKind(kind), invokeError{Error: err.Error(), Kind: kind})
		return
	}

	writeJSON(w, http.StatusOK, invokeResponse{Result: result})
}

func (h *Handler) readArgs(w http.ResponseWriter, r *http.Request, name string) (json.RawMessage, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if name == "play_audio_wav" && isAudioType(mediaType) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.limits.MaxAudioBody))
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]string{"bytes": base64.StdEncoding.EncodeToString(data)})
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.limits.MaxJSONBody))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(data) {
		return nil, errors.New("request body is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func isAudioType(mediaType string) bool {
	switch mediaType {
	case "audio/wav", "audio/wave", "audio/x-wav", "application/octet-stream":
		return true
	}
	return false
}

func statusForKind(kind commands.ErrorKind) int {
	switch kind {
	case commands.KindInvalidArgs:
		return http.StatusBadRequest
	case commands.KindUnknownCommand:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body under the configured limit.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, h.limits.MaxJSONBody)).Decode(dst)
}
