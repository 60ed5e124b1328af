package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rpay/deskpet/internal/middleware"
	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

type chatRequest struct {
	Messages []openaicompat.ChatMessage `json:"messages"`
}

type generatePetRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// HandleChat handles POST /api/chat using the configured upstream.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Messages == nil {
		writeError(w, http.StatusBadRequest, "messages required")
		return
	}

	start := time.Now()
	reply, err := h.pet.Reply(r.Context(), req.Messages)
	h.metrics.Record("api_chat", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		h.writeUpstreamError(w, r, "chat", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]openaicompat.Content{"reply": reply})
}

// HandleGeneratePet handles POST /api/generate-pet.
func (h *Handler) HandleGeneratePet(w http.ResponseWriter, r *http.Request) {
	var req generatePetRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ImageBase64 == "" {
		writeError(w, http.StatusBadRequest, "imageBase64 required")
		return
	}

	start := time.Now()
	imageURL, err := h.pet.GenerateImage(r.Context(), req.ImageBase64)
	h.metrics.Record("api_generate_pet", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		var noImage *openaicompat.NoImageError
		if errors.As(err, &noImage) {
			h.commandLogger.Printf("ERROR [generate-pet] user=%s no image in response", userLabel(r))
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": noImage.Error(),
				"raw":   json.RawMessage(noImage.Raw),
			})
			return
		}
		h.writeUpstreamError(w, r, "generate-pet", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}

// writeUpstreamError echoes upstream HTTP failures with their status code
// and body; everything else is a 500.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, r *http.Request, route string, err error) {
	h.commandLogger.Printf("ERROR [%s] user=%s %v", route, userLabel(r), err)

	var statusErr *openaicompat.StatusError
	if errors.As(err, &statusErr) {
		writeError(w, statusErr.StatusCode, statusErr.Body)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// userLabel names the authenticated caller in log lines, "-" when anonymous.
func userLabel(r *http.Request) string {
	if id := middleware.GetUserIDFromContext(r.Context()); id != "" {
		return id
	}
	return "-"
}
