package models

import "time"

// PostType discriminates the two record variants sharing the posts collection.
type PostType string

const (
	PostTypeRoom     PostType = "room"
	PostTypeRoommate PostType = "roommate"
)

// Post is a single record in the shared posts collection. Room listings and
// roommate-search posts live in one flat document, discriminated by Type;
// each variant populates only its own fields. The JSON key casing is the
// persisted wire format and must not change.
type Post struct {
	ID        string   `json:"id"`
	Type      PostType `json:"type"`
	Timestamp string   `json:"timestamp"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
	Hidden    bool     `json:"hidden"`

	// Contact fields, common to both variants.
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`

	// Room listing fields.
	Location      string   `json:"location,omitempty"`
	RentByPerson  string   `json:"rent_by_person,omitempty"`
	Deposit       string   `json:"deposit,omitempty"`
	RoomType      string   `json:"room_type,omitempty"`
	AvailableFrom string   `json:"available_from,omitempty"`
	Facilities    string   `json:"facilities,omitempty"`
	MapLink       string   `json:"map_link,omitempty"`
	ImageLinks    []string `json:"imageLinks,omitempty"`

	// Roommate post fields.
	Message string  `json:"message,omitempty"`
	Replies []Reply `json:"replies,omitempty"`
}

// Reply is a public response attached to a roommate post.
type Reply struct {
	SenderName   string `json:"senderName"`
	SenderEmail  string `json:"senderEmail"`
	ReplyMessage string `json:"replyMessage"`
	Timestamp    string `json:"timestamp"`
}

// NowTimestamp returns the timestamp format shared by posts, replies and chat
// entries (RFC 3339, UTC).
func NowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
