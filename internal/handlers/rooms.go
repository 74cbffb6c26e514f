package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/SONU-ux-it/knhaji/internal/metrics"
	"github.com/SONU-ux-it/knhaji/internal/models"
	"github.com/SONU-ux-it/knhaji/internal/upload"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// parts spill to the OS temp dir before being spooled for forwarding.
const maxUploadMemory = 8 << 20

// CreateRoomRequest is the JSON variant of room creation. Multipart requests
// carry the same fields as form values, plus `images` file parts and
// repeatable `imageLinks` values for pre-resolved URLs.
type CreateRoomRequest struct {
	Name          string   `json:"name"`
	Gender        string   `json:"gender"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Location      string   `json:"location"`
	RentByPerson  string   `json:"rent_by_person"`
	Deposit       string   `json:"deposit"`
	RoomType      string   `json:"room_type"`
	AvailableFrom string   `json:"available_from"`
	Facilities    string   `json:"facilities"`
	MapLink       string   `json:"map_link"`
	ImageLinks    []string `json:"imageLinks"`
}

// CreateRoomResponse returns the generated id and the final image gallery.
type CreateRoomResponse struct {
	ID         string   `json:"id"`
	ImageLinks []string `json:"imageLinks"`
}

// RoomResponse is the public shape of a room listing.
type RoomResponse struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Name          string   `json:"name"`
	Gender        string   `json:"gender"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Location      string   `json:"location"`
	RentByPerson  string   `json:"rent_by_person"`
	Deposit       string   `json:"deposit"`
	RoomType      string   `json:"room_type"`
	AvailableFrom string   `json:"available_from"`
	Facilities    string   `json:"facilities"`
	MapLink       string   `json:"map_link"`
	ImageLinks    []string `json:"imageLinks"`
	Timestamp     string   `json:"timestamp"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
	Hidden        bool     `json:"hidden"`
}

func toRoomResponse(p models.Post) RoomResponse {
	links := p.ImageLinks
	if links == nil {
		links = []string{}
	}
	return RoomResponse{
		ID:            p.ID,
		Type:          string(p.Type),
		Name:          p.Name,
		Gender:        p.Gender,
		Phone:         p.Phone,
		Email:         p.Email,
		Location:      p.Location,
		RentByPerson:  p.RentByPerson,
		Deposit:       p.Deposit,
		RoomType:      p.RoomType,
		AvailableFrom: p.AvailableFrom,
		Facilities:    p.Facilities,
		MapLink:       p.MapLink,
		ImageLinks:    links,
		Timestamp:     p.Timestamp,
		UpdatedAt:     p.UpdatedAt,
		Hidden:        p.Hidden,
	}
}

// CreateRoom handles room listing creation. Multipart bodies may carry image
// files; each one is spooled locally, forwarded to the image host and
// replaced by its durable URL. Any forwarding failure fails the whole
// request and no listing is stored. Missing text fields become "".
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	post := models.Post{Type: models.PostTypeRoom}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.Error(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		post.Name = r.FormValue("name")
		post.Gender = r.FormValue("gender")
		post.Phone = r.FormValue("phone")
		post.Email = r.FormValue("email")
		post.Location = r.FormValue("location")
		post.RentByPerson = r.FormValue("rent_by_person")
		post.Deposit = r.FormValue("deposit")
		post.RoomType = r.FormValue("room_type")
		post.AvailableFrom = r.FormValue("available_from")
		post.Facilities = r.FormValue("facilities")
		post.MapLink = r.FormValue("map_link")

		// Pre-resolved URLs keep their submitted order; uploads append after.
		links := append([]string{}, r.MultipartForm.Value["imageLinks"]...)
		uploaded, err := h.uploadImages(r)
		if err != nil {
			h.logger.Error().Err(err).Msg("image upload failed")
			h.Error(w, http.StatusBadGateway, "image upload failed")
			return
		}
		post.ImageLinks = append(links, uploaded...)
	} else {
		var req CreateRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		post.Name = req.Name
		post.Gender = req.Gender
		post.Phone = req.Phone
		post.Email = req.Email
		post.Location = req.Location
		post.RentByPerson = req.RentByPerson
		post.Deposit = req.Deposit
		post.RoomType = req.RoomType
		post.AvailableFrom = req.AvailableFrom
		post.Facilities = req.Facilities
		post.MapLink = req.MapLink
		post.ImageLinks = req.ImageLinks
	}

	if err := h.store.AppendPost(r.Context(), &post); err != nil {
		h.logger.Error().Err(err).Msg("failed to save room listing")
		h.Error(w, http.StatusInternalServerError, "failed to save listing")
		return
	}

	metrics.PostsCreated.WithLabelValues(string(models.PostTypeRoom)).Inc()

	links := post.ImageLinks
	if links == nil {
		links = []string{}
	}
	h.JSON(w, http.StatusCreated, CreateRoomResponse{ID: post.ID, ImageLinks: links})
}

// uploadImages forwards each `images` part: spool to a local temp file, hand
// the path to the uploader (which removes the file win or lose), collect the
// returned URL. The first failure aborts the whole batch.
func (h *Handler) uploadImages(r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		return nil, nil
	}
	if h.uploader == nil {
		return nil, errors.New("no image host configured")
	}

	links := make([]string, 0, len(files))
	for _, fh := range files {
		part, err := fh.Open()
		if err != nil {
			return nil, err
		}
		path, err := upload.SaveTemp(h.tempDir, part, fh.Filename)
		part.Close()
		if err != nil {
			return nil, err
		}

		url, err := h.uploader.Upload(r.Context(), path)
		if err != nil {
			metrics.ImageUploadFailures.Inc()
			return nil, err
		}
		metrics.ImagesUploaded.Inc()
		links = append(links, url)
	}
	return links, nil
}

// ListRooms returns visible room listings in collection order.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.store.FilterVisible(r.Context(), models.PostTypeRoom)

	out := make([]RoomResponse, len(rooms))
	for i, p := range rooms {
		out[i] = toRoomResponse(p)
	}
	h.JSON(w, http.StatusOK, out)
}
