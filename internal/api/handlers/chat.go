package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rosanasant/financas-backend/internal/api/middleware"
	"github.com/rosanasant/financas-backend/internal/assistant"
)

// ChatHandler handles the conversational endpoint.
type ChatHandler struct {
	processor *assistant.Processor
	log       zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(processor *assistant.Processor, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		processor: processor,
		log:       log,
	}
}

type chatRequest struct {
	// UserID is accepted for wire compatibility with older clients. It
	// must match the token identity when present; the token wins.
	UserID string `json:"userId"`

	Messages []assistant.Message `json:"messages"`

	// Message is the legacy single-turn field still sent by older
	// clients. Ignored when Messages is present.
	Message string `json:"message"`
}

// ProcessMessage handles POST /api/messages
func (h *ChatHandler) ProcessMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID != "" && req.UserID != userID {
		middleware.WriteError(w, http.StatusForbidden, "userId does not match the authenticated identity")
		return
	}

	conversation := req.Messages
	if len(conversation) == 0 && req.Message != "" {
		conversation = []assistant.Message{{Role: assistant.RoleUser, Content: req.Message}}
	}
	if len(conversation) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "messages is required")
		return
	}

	result, err := h.processor.ProcessMessage(r.Context(), userID, conversation)
	if err != nil {
		h.log.Error().Err(err).Msg("Message processing failed")

		// The client renders the response field even on errors, so the
		// apology travels with the status code.
		var perr *assistant.ProcessError
		userMessage := assistant.MsgGenericFailure
		if errors.As(err, &perr) {
			userMessage = perr.UserMessage
		}
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"response": userMessage,
			"error":    "processing failed",
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}
