package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SONU-ux-it/knhaji/internal/metrics"
	"github.com/SONU-ux-it/knhaji/internal/models"
)

// LoginRequest represents the admin login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the admin login response.
type LoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// EditRoomRequest is the shallow-merge admin edit: only fields present in
// the body are applied, everything else keeps its stored value.
type EditRoomRequest struct {
	Name          *string   `json:"name"`
	Gender        *string   `json:"gender"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Location      *string   `json:"location"`
	RentByPerson  *string   `json:"rent_by_person"`
	Deposit       *string   `json:"deposit"`
	RoomType      *string   `json:"room_type"`
	AvailableFrom *string   `json:"available_from"`
	Facilities    *string   `json:"facilities"`
	MapLink       *string   `json:"map_link"`
	ImageLinks    *[]string `json:"imageLinks"`
}

// StatsResponse represents the admin dashboard counters.
type StatsResponse struct {
	Rooms        int `json:"rooms"`
	Roommates    int `json:"roommates"`
	Hidden       int `json:"hidden"`
	Replies      int `json:"replies"`
	ChatMessages int `json:"chat_messages"`
}

// Login checks the submitted pair against the fixed admin credential.
// Exact match succeeds; anything else is rejected with no detail.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !h.auth.Verify(req.Username, req.Password) {
		metrics.AdminLogins.WithLabelValues("failure").Inc()
		h.JSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Error: "invalid credentials"})
		return
	}

	metrics.AdminLogins.WithLabelValues("success").Inc()
	h.JSON(w, http.StatusOK, LoginResponse{Success: true})
}

// ListAllRooms returns every room listing, hidden ones included, in
// collection order. The response index is what the other admin room
// endpoints address, so both sides compute it the same way.
func (h *Handler) ListAllRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.store.FilterByType(r.Context(), models.PostTypeRoom)

	out := make([]RoomResponse, len(rooms))
	for i, p := range rooms {
		out[i] = toRoomResponse(p)
	}
	h.JSON(w, http.StatusOK, out)
}

// Stats returns collection totals for the admin dashboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	posts := h.store.LoadPosts(r.Context())
	chats := h.store.LoadChats(r.Context())

	var stats StatsResponse
	for _, p := range posts {
		switch p.Type {
		case models.PostTypeRoom:
			stats.Rooms++
		case models.PostTypeRoommate:
			stats.Roommates++
		}
		if p.Hidden {
			stats.Hidden++
		}
		stats.Replies += len(p.Replies)
	}
	for _, history := range chats {
		stats.ChatMessages += len(history)
	}

	h.JSON(w, http.StatusOK, stats)
}

// roomIndex parses the positional index segment. Only the numeric format is
// checked here; bounds are the store's call.
func (h *Handler) roomIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid index")
		return 0, false
	}
	return index, true
}

// DeleteRoomByIndex removes the index-th room of the current filtered view.
// The index a client is holding may address a different room by the time
// the request lands; that positional contract is inherited.
func (h *Handler) DeleteRoomByIndex(w http.ResponseWriter, r *http.Request) {
	index, ok := h.roomIndex(w, r)
	if !ok {
		return
	}

	found, err := h.store.RemoveByFilteredIndex(r.Context(), models.PostTypeRoom, index)
	if err != nil {
		h.logger.Error().Err(err).Int("index", index).Msg("failed to delete room")
		h.Error(w, http.StatusInternalServerError, "failed to delete room")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "room not found")
		return
	}

	metrics.PostsDeleted.WithLabelValues(string(models.PostTypeRoom)).Inc()

	h.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// EditRoomByIndex shallow-merges the request into the index-th room and
// stamps updatedAt.
func (h *Handler) EditRoomByIndex(w http.ResponseWriter, r *http.Request) {
	index, ok := h.roomIndex(w, r)
	if !ok {
		return
	}

	var req EditRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var updated models.Post
	found, err := h.store.UpdateByFilteredIndex(r.Context(), models.PostTypeRoom, index, func(p *models.Post) {
		applyRoomEdit(p, req)
		p.UpdatedAt = models.NowTimestamp()
		updated = *p
	})
	if err != nil {
		h.logger.Error().Err(err).Int("index", index).Msg("failed to edit room")
		h.Error(w, http.StatusInternalServerError, "failed to update room")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "room not found")
		return
	}

	h.JSON(w, http.StatusOK, toRoomResponse(updated))
}

// SetRoomHiddenByIndex hides or unhides the index-th room.
func (h *Handler) SetRoomHiddenByIndex(w http.ResponseWriter, r *http.Request) {
	index, ok := h.roomIndex(w, r)
	if !ok {
		return
	}

	var req SetHiddenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var updated models.Post
	found, err := h.store.UpdateByFilteredIndex(r.Context(), models.PostTypeRoom, index, func(p *models.Post) {
		p.Hidden = req.Hidden
		updated = *p
	})
	if err != nil {
		h.logger.Error().Err(err).Int("index", index).Msg("failed to update room visibility")
		h.Error(w, http.StatusInternalServerError, "failed to update room")
		return
	}
	if !found {
		h.Error(w, http.StatusNotFound, "room not found")
		return
	}

	h.JSON(w, http.StatusOK, toRoomResponse(updated))
}

func applyRoomEdit(p *models.Post, req EditRoomRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.RentByPerson != nil {
		p.RentByPerson = *req.RentByPerson
	}
	if req.Deposit != nil {
		p.Deposit = *req.Deposit
	}
	if req.RoomType != nil {
		p.RoomType = *req.RoomType
	}
	if req.AvailableFrom != nil {
		p.AvailableFrom = *req.AvailableFrom
	}
	if req.Facilities != nil {
		p.Facilities = *req.Facilities
	}
	if req.MapLink != nil {
		p.MapLink = *req.MapLink
	}
	if req.ImageLinks != nil {
		p.ImageLinks = *req.ImageLinks
	}
}
