package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SONU-ux-it/knhaji/internal/metrics"
	"github.com/SONU-ux-it/knhaji/internal/models"
)

// ChatMessageRequest represents one chat message about a post.
type ChatMessageRequest struct {
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Message     string `json:"message"`
}

// PostChatMessage appends a message to the post's chat history, creating the
// history on first message. The post id is never checked against the posts
// collection: a chat can outlive or precede its post.
func (h *Handler) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry := models.ChatEntry{
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		Message:     req.Message,
	}
	if err := h.store.AppendChatEntry(r.Context(), postID, &entry); err != nil {
		h.logger.Error().Err(err).Str("post_id", postID).Msg("failed to save chat message")
		h.Error(w, http.StatusInternalServerError, "failed to save message")
		return
	}

	metrics.ChatMessages.Inc()

	h.JSON(w, http.StatusCreated, entry)
}

// GetChatHistory returns the full ordered history for the post, oldest
// first; an unknown post id yields an empty array.
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	h.JSON(w, http.StatusOK, h.store.ChatHistory(r.Context(), postID))
}
