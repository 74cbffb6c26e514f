package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SONU-ux-it/knhaji/internal/metrics"
	"github.com/SONU-ux-it/knhaji/internal/models"
)

// CreateRoommateRequest represents the roommate post creation request.
type CreateRoommateRequest struct {
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// CreateRoommateResponse returns the generated identity of a roommate post.
type CreateRoommateResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

// RoommateResponse is the public shape of a roommate post.
type RoommateResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Gender    string         `json:"gender"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email"`
	Message   string         `json:"message"`
	Replies   []models.Reply `json:"replies"`
	Timestamp string         `json:"timestamp"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
	Hidden    bool           `json:"hidden"`
}

// ReplyRequest represents a private reply to a roommate post.
type ReplyRequest struct {
	SenderName   string `json:"senderName"`
	SenderEmail  string `json:"senderEmail"`
	ReplyMessage string `json:"replyMessage"`
}

// UpdateMessageRequest represents a message-only edit.
type UpdateMessageRequest struct {
	Message string `json:"message"`
}

// SetHiddenRequest toggles a post's visibility.
type SetHiddenRequest struct {
	Hidden bool `json:"hidden"`
}

func toRoommateResponse(p models.Post) RoommateResponse {
	replies := p.Replies
	if replies == nil {
		replies = []models.Reply{}
	}
	return RoommateResponse{
		ID:        p.ID,
		Type:      string(p.Type),
		Name:      p.Name,
		Gender:    p.Gender,
		Phone:     p.Phone,
		Email:     p.Email,
		Message:   p.Message,
		Replies:   replies,
		Timestamp: p.Timestamp,
		UpdatedAt: p.UpdatedAt,
		Hidden:    p.Hidden,
	}
}

// CreateRoommate handles roommate post creation. Missing fields become "".
func (h *Handler) CreateRoommate(w http.ResponseWriter, r *http.Request) {
	var req CreateRoommateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	post := models.Post{
		Type:    models.PostTypeRoommate,
		Name:    req.Name,
		Gender:  req.Gender,
		Phone:   req.Phone,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := h.store.AppendPost(r.Context(), &post); err != nil {
		h.logger.Error().Err(err).Msg("failed to save roommate post")
		h.Error(w, http.StatusInternalServerError, "failed to save post")
		return
	}

	metrics.PostsCreated.WithLabelValues(string(models.PostTypeRoommate)).Inc()

	h.JSON(w, http.StatusCreated, CreateRoommateResponse{ID: post.ID, Timestamp: post.Timestamp})
}

// ListRoommates returns visible roommate posts, replies included.
func (h *Handler) ListRoommates(w http.ResponseWriter, r *http.Request) {
	posts := h.store.FilterVisible(r.Context(), models.PostTypeRoommate)

	out := make([]RoommateResponse, len(posts))
	for i, p := range posts {
		out[i] = toRoommateResponse(p)
	}
	h.JSON(w, http.StatusOK, out)
}

// AddReply appends a private reply to the addressed post. Ids are opaque:
// an id that matches nothing is a 404, whatever it looks like.
func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reply := models.Reply{
		SenderName:   req.SenderName,
		SenderEmail:  req.SenderEmail,
		ReplyMessage: req.ReplyMessage,
		Timestamp:    models.NowTimestamp(),
	}

	found, err := h.store.UpdateByID(r.Context(), id, func(p *models.Post) {
		p.Replies = append(p.Replies, reply)
	})
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("failed to save reply")
		h.Error(w, http.StatusInternalServerError, "failed to save reply")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "post not found")
		return
	}

	metrics.RepliesPosted.Inc()

	h.JSON(w, http.StatusCreated, reply)
}

// UpdateMessage edits only the message text and stamps updatedAt.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var updated models.Post
	found, err := h.store.UpdateByID(r.Context(), id, func(p *models.Post) {
		p.Message = req.Message
		p.UpdatedAt = models.NowTimestamp()
		updated = *p
	})
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("failed to update message")
		h.Error(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "post not found")
		return
	}

	h.JSON(w, http.StatusOK, toRoommateResponse(updated))
}

// SetHidden hides or unhides a post. Visibility is moderation state, not a
// content edit, so updatedAt stays put.
func (h *Handler) SetHidden(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SetHiddenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var updated models.Post
	found, err := h.store.UpdateByID(r.Context(), id, func(p *models.Post) {
		p.Hidden = req.Hidden
		updated = *p
	})
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("failed to update visibility")
		h.Error(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "post not found")
		return
	}

	h.JSON(w, http.StatusOK, toRoommateResponse(updated))
}

// EditRoommate replaces the editable fields wholesale; absent fields become
// "". Identity, replies and visibility survive the edit.
func (h *Handler) EditRoommate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateRoommateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var updated models.Post
	found, err := h.store.UpdateByID(r.Context(), id, func(p *models.Post) {
		p.Name = req.Name
		p.Gender = req.Gender
		p.Phone = req.Phone
		p.Email = req.Email
		p.Message = req.Message
		p.UpdatedAt = models.NowTimestamp()
		updated = *p
	})
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("failed to edit post")
		h.Error(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "post not found")
		return
	}

	h.JSON(w, http.StatusOK, toRoommateResponse(updated))
}

// DeleteRoommate physically removes the addressed post.
func (h *Handler) DeleteRoommate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.store.RemoveByID(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("failed to delete post")
		h.Error(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "post not found")
		return
	}

	metrics.PostsDeleted.WithLabelValues(string(models.PostTypeRoommate)).Inc()

	h.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
