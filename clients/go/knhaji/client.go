// Package knhaji provides a client for the knhaji room-rental listing API.
package knhaji

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a knhaji API client. AdminUsername/AdminPassword authenticate
// the admin methods; either set them directly or let AdminLogin fill them
// in after a successful credential check.
type Client struct {
	BaseURL       string
	AdminUsername string
	AdminPassword string
	HTTPClient    *http.Client
}

// NewClient creates a new knhaji client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request. Admin requests carry HTTP Basic auth
// built from the client's credential pair.
func (c *Client) doRequest(method, path string, body []byte, admin bool) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.SetBasicAuth(c.AdminUsername, c.AdminPassword)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("knhaji error %d: %s", resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// Room represents a room listing.
type Room struct {
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

// CreateRoomRequest is the request body for creating a room listing.
// ImageLinks carries pre-resolved URLs; file uploads go through the
// multipart endpoint, which this client does not wrap.
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
	ImageLinks    []string `json:"imageLinks,omitempty"`
}

// CreateRoomResponse is the response from creating a room listing.
type CreateRoomResponse struct {
	ID         string   `json:"id"`
	ImageLinks []string `json:"imageLinks"`
}

// CreateRoom creates a room listing.
func (c *Client) CreateRoom(room CreateRoomRequest) (*CreateRoomResponse, error) {
	body, _ := json.Marshal(room)
	respBody, err := c.doRequest("POST", "/rooms", body, false)
	if err != nil {
		return nil, err
	}

	var resp CreateRoomResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRooms lists visible room listings.
func (c *Client) ListRooms() ([]Room, error) {
	respBody, err := c.doRequest("GET", "/rooms", nil, false)
	if err != nil {
		return nil, err
	}

	var rooms []Room
	if err := json.Unmarshal(respBody, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Reply is a public response attached to a roommate post.
type Reply struct {
	SenderName   string `json:"senderName"`
	SenderEmail  string `json:"senderEmail"`
	ReplyMessage string `json:"replyMessage"`
	Timestamp    string `json:"timestamp"`
}

// Roommate represents a roommate-search post.
type Roommate struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Gender    string  `json:"gender"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Message   string  `json:"message"`
	Replies   []Reply `json:"replies"`
	Timestamp string  `json:"timestamp"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
	Hidden    bool    `json:"hidden"`
}

// CreateRoommateRequest is the request body for creating a roommate post.
type CreateRoommateRequest struct {
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// CreateRoommateResponse is the response from creating a roommate post.
type CreateRoommateResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

// CreateRoommate creates a roommate-search post.
func (c *Client) CreateRoommate(post CreateRoommateRequest) (*CreateRoommateResponse, error) {
	body, _ := json.Marshal(post)
	respBody, err := c.doRequest("POST", "/roommates", body, false)
	if err != nil {
		return nil, err
	}

	var resp CreateRoommateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRoommates lists visible roommate posts.
func (c *Client) ListRoommates() ([]Roommate, error) {
	respBody, err := c.doRequest("GET", "/roommates", nil, false)
	if err != nil {
		return nil, err
	}

	var posts []Roommate
	if err := json.Unmarshal(respBody, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AddReply appends a reply to the roommate post with the given id.
func (c *Client) AddReply(postID, senderName, senderEmail, message string) (*Reply, error) {
	body, _ := json.Marshal(map[string]string{
		"senderName":   senderName,
		"senderEmail":  senderEmail,
		"replyMessage": message,
	})
	respBody, err := c.doRequest("POST", "/roommates/"+postID+"/replies", body, false)
	if err != nil {
		return nil, err
	}

	var reply Reply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// UpdateMessage edits the message text of a roommate post.
func (c *Client) UpdateMessage(postID, message string) (*Roommate, error) {
	body, _ := json.Marshal(map[string]string{"message": message})
	respBody, err := c.doRequest("PATCH", "/roommates/"+postID+"/message", body, false)
	if err != nil {
		return nil, err
	}

	var post Roommate
	if err := json.Unmarshal(respBody, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// SetRoommateHidden hides or unhides a roommate post.
func (c *Client) SetRoommateHidden(postID string, hidden bool) (*Roommate, error) {
	body, _ := json.Marshal(map[string]bool{"hidden": hidden})
	respBody, err := c.doRequest("PATCH", "/roommates/"+postID+"/hidden", body, false)
	if err != nil {
		return nil, err
	}

	var post Roommate
	if err := json.Unmarshal(respBody, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// EditRoommate replaces the editable fields of a roommate post wholesale.
func (c *Client) EditRoommate(postID string, post CreateRoommateRequest) (*Roommate, error) {
	body, _ := json.Marshal(post)
	respBody, err := c.doRequest("PUT", "/roommates/"+postID, body, false)
	if err != nil {
		return nil, err
	}

	var updated Roommate
	if err := json.Unmarshal(respBody, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRoommate removes a roommate post.
func (c *Client) DeleteRoommate(postID string) error {
	_, err := c.doRequest("DELETE", "/roommates/"+postID, nil, false)
	return err
}

// ChatMessage is one message in a post's private chat history.
type ChatMessage struct {
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
}

// SendChatMessage appends a message to the post's chat history.
func (c *Client) SendChatMessage(postID, senderName, senderEmail, message string) (*ChatMessage, error) {
	body, _ := json.Marshal(map[string]string{
		"senderName":  senderName,
		"senderEmail": senderEmail,
		"message":     message,
	})
	respBody, err := c.doRequest("POST", "/chats/"+postID+"/messages", body, false)
	if err != nil {
		return nil, err
	}

	var msg ChatMessage
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ChatHistory fetches the full ordered chat history for a post, oldest
// first. Unknown post ids yield an empty history, not an error.
func (c *Client) ChatHistory(postID string) ([]ChatMessage, error) {
	respBody, err := c.doRequest("GET", "/chats/"+postID+"/messages", nil, false)
	if err != nil {
		return nil, err
	}

	var history []ChatMessage
	if err := json.Unmarshal(respBody, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AdminLogin checks the credential pair against the server and, on success,
// stores it on the client for subsequent admin calls.
func (c *Client) AdminLogin(username, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	respBody, err := c.doRequest("POST", "/admin/login", body, false)
	if err != nil {
		return err
	}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("login rejected: %s", resp.Error)
	}

	c.AdminUsername = username
	c.AdminPassword = password
	return nil
}

// AdminRooms lists every room listing, hidden ones included. The slice
// index of each room is the positional key the other admin room methods
// address; it shifts whenever the collection changes.
func (c *Client) AdminRooms() ([]Room, error) {
	respBody, err := c.doRequest("GET", "/admin/rooms", nil, true)
	if err != nil {
		return nil, err
	}

	var rooms []Room
	if err := json.Unmarshal(respBody, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// AdminStats holds collection totals for the admin dashboard.
type AdminStats struct {
	Rooms        int `json:"rooms"`
	Roommates    int `json:"roommates"`
	Hidden       int `json:"hidden"`
	Replies      int `json:"replies"`
	ChatMessages int `json:"chat_messages"`
}

// AdminGetStats fetches collection totals.
func (c *Client) AdminGetStats() (*AdminStats, error) {
	respBody, err := c.doRequest("GET", "/admin/stats", nil, true)
	if err != nil {
		return nil, err
	}

	var stats AdminStats
	if err := json.Unmarshal(respBody, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RoomPatch is a shallow-merge edit: nil fields keep their stored value.
type RoomPatch struct {
	Name          *string   `json:"name,omitempty"`
	Gender        *string   `json:"gender,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Location      *string   `json:"location,omitempty"`
	RentByPerson  *string   `json:"rent_by_person,omitempty"`
	Deposit       *string   `json:"deposit,omitempty"`
	RoomType      *string   `json:"room_type,omitempty"`
	AvailableFrom *string   `json:"available_from,omitempty"`
	Facilities    *string   `json:"facilities,omitempty"`
	MapLink       *string   `json:"map_link,omitempty"`
	ImageLinks    *[]string `json:"imageLinks,omitempty"`
}

// AdminEditRoom shallow-merges the patch into the room at the given index
// of the admin listing.
func (c *Client) AdminEditRoom(index int, patch RoomPatch) (*Room, error) {
	body, _ := json.Marshal(patch)
	respBody, err := c.doRequest("PATCH", fmt.Sprintf("/admin/rooms/%d", index), body, true)
	if err != nil {
		return nil, err
	}

	var room Room
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// AdminSetRoomHidden hides or unhides the room at the given index.
func (c *Client) AdminSetRoomHidden(index int, hidden bool) (*Room, error) {
	body, _ := json.Marshal(map[string]bool{"hidden": hidden})
	respBody, err := c.doRequest("PATCH", fmt.Sprintf("/admin/rooms/%d/hidden", index), body, true)
	if err != nil {
		return nil, err
	}

	var room Room
	if err := json.Unmarshal(respBody, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// AdminDeleteRoom removes the room at the given index.
func (c *Client) AdminDeleteRoom(index int) error {
	_, err := c.doRequest("DELETE", fmt.Sprintf("/admin/rooms/%d", index), nil, true)
	return err
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// Health checks server health.
func (c *Client) Health() (*HealthResponse, error) {
	respBody, err := c.doRequest("GET", "/health", nil, false)
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
