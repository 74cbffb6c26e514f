package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SONU-ux-it/knhaji/internal/models"
)

func seedRoommate(t *testing.T, h *Handler, name, message string) *models.Post {
	t.Helper()
	p := &models.Post{
		Type:    models.PostTypeRoommate,
		Name:    name,
		Gender:  "female",
		Phone:   "9811111111",
		Email:   name + "@example.com",
		Message: message,
	}
	require.NoError(t, h.store.AppendPost(context.Background(), p))
	return p
}

func TestCreateRoommate(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.CreateRoommate(rec, jsonRequest("POST", "/roommates", `{
		"name": "Sita",
		"gender": "female",
		"phone": "9811111111",
		"email": "sita@example.com",
		"message": "looking for a flat near Patan"
	}`))

	require.Equal(t, 201, rec.Code)

	var resp CreateRoommateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.Timestamp)

	stored := h.store.FindByID(context.Background(), resp.ID)
	require.NotNil(t, stored)
	assert.Equal(t, models.PostTypeRoommate, stored.Type)
	assert.Equal(t, "looking for a flat near Patan", stored.Message)
}

func TestCreateRoommateInvalidJSON(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.CreateRoommate(rec, jsonRequest("POST", "/roommates", `not json`))

	assert.Equal(t, 400, rec.Code)
	assert.Empty(t, h.store.LoadPosts(context.Background()))
}

func TestListRoommatesVisibleOnly(t *testing.T) {
	h := newTestHandler(t, nil)
	ctx := context.Background()

	seedRoommate(t, h, "visible", "hello")
	hidden := seedRoommate(t, h, "hidden", "hi")
	_, err := h.store.UpdateByID(ctx, hidden.ID, func(p *models.Post) { p.Hidden = true })
	require.NoError(t, err)
	require.NoError(t, h.store.AppendPost(ctx, &models.Post{Type: models.PostTypeRoom, Name: "a room"}))

	rec := httptest.NewRecorder()
	h.ListRoommates(rec, httptest.NewRequest("GET", "/roommates", nil))

	require.Equal(t, 200, rec.Code)

	var posts []RoommateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "visible", posts[0].Name)
	assert.NotNil(t, posts[0].Replies, "replies serializes as an array, never null")
}

func TestAddReply(t *testing.T) {
	h := newTestHandler(t, nil)
	post := seedRoommate(t, h, "Sita", "looking")

	body := `{"senderName":"Ram","senderEmail":"ram@example.com","replyMessage":"interested"}`
	rec := httptest.NewRecorder()
	h.AddReply(rec, withChiParam(jsonRequest("POST", "/roommates/x/replies", body), "id", post.ID))

	require.Equal(t, 201, rec.Code)

	var reply models.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "Ram", reply.SenderName)
	assert.NotEmpty(t, reply.Timestamp)

	// A second reply lands after the first.
	body2 := `{"senderName":"Gita","senderEmail":"gita@example.com","replyMessage":"me too"}`
	rec = httptest.NewRecorder()
	h.AddReply(rec, withChiParam(jsonRequest("POST", "/roommates/x/replies", body2), "id", post.ID))
	require.Equal(t, 201, rec.Code)

	stored := h.store.FindByID(context.Background(), post.ID)
	require.NotNil(t, stored)
	require.Len(t, stored.Replies, 2)
	assert.Equal(t, "Ram", stored.Replies[0].SenderName)
	assert.Equal(t, "Gita", stored.Replies[1].SenderName)
}

func TestAddReplyUnknownID(t *testing.T) {
	h := newTestHandler(t, nil)
	seedRoommate(t, h, "someone", "hi")

	body := `{"senderName":"Ram","replyMessage":"hello?"}`
	rec := httptest.NewRecorder()
	h.AddReply(rec, withChiParam(jsonRequest("POST", "/roommates/x/replies", body), "id", "no-such-id"))

	assert.Equal(t, 404, rec.Code)
}

func TestUpdateMessage(t *testing.T) {
	h := newTestHandler(t, nil)
	post := seedRoommate(t, h, "Sita", "original message")

	rec := httptest.NewRecorder()
	h.UpdateMessage(rec, withChiParam(jsonRequest("PATCH", "/roommates/x/message", `{"message":"edited"}`), "id", post.ID))

	require.Equal(t, 200, rec.Code)

	var resp RoommateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "edited", resp.Message)
	assert.NotEmpty(t, resp.UpdatedAt)
	assert.Equal(t, "Sita", resp.Name, "message edits leave the other fields alone")
}

func TestSetHiddenRoundTrip(t *testing.T) {
	h := newTestHandler(t, nil)
	ctx := context.Background()
	post := seedRoommate(t, h, "Sita", "hi")

	rec := httptest.NewRecorder()
	h.SetHidden(rec, withChiParam(jsonRequest("PATCH", "/roommates/x/hidden", `{"hidden":true}`), "id", post.ID))
	require.Equal(t, 200, rec.Code)

	assert.Empty(t, h.store.FilterVisible(ctx, models.PostTypeRoommate))

	stored := h.store.FindByID(ctx, post.ID)
	require.NotNil(t, stored)
	assert.True(t, stored.Hidden)
	assert.Empty(t, stored.UpdatedAt, "visibility toggles are not content edits")

	rec = httptest.NewRecorder()
	h.SetHidden(rec, withChiParam(jsonRequest("PATCH", "/roommates/x/hidden", `{"hidden":false}`), "id", post.ID))
	require.Equal(t, 200, rec.Code)
	assert.Len(t, h.store.FilterVisible(ctx, models.PostTypeRoommate), 1)
}

func TestEditRoommateReplacesFields(t *testing.T) {
	h := newTestHandler(t, nil)
	ctx := context.Background()

	post := seedRoommate(t, h, "Sita", "old message")
	_, err := h.store.UpdateByID(ctx, post.ID, func(p *models.Post) {
		p.Replies = []models.Reply{{SenderName: "Ram", ReplyMessage: "kept"}}
	})
	require.NoError(t, err)

	// Full edit: absent fields become "", identity and replies survive.
	body := `{"name":"Sita Rai","message":"new message"}`
	rec := httptest.NewRecorder()
	h.EditRoommate(rec, withChiParam(jsonRequest("PUT", "/roommates/x", body), "id", post.ID))

	require.Equal(t, 200, rec.Code)

	stored := h.store.FindByID(ctx, post.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "Sita Rai", stored.Name)
	assert.Equal(t, "new message", stored.Message)
	assert.Empty(t, stored.Phone)
	assert.Empty(t, stored.Email)
	assert.Equal(t, post.ID, stored.ID)
	assert.Equal(t, post.Timestamp, stored.Timestamp)
	assert.NotEmpty(t, stored.UpdatedAt)
	require.Len(t, stored.Replies, 1)
	assert.Equal(t, "kept", stored.Replies[0].ReplyMessage)
}

func TestDeleteRoommate(t *testing.T) {
	h := newTestHandler(t, nil)
	ctx := context.Background()

	target := seedRoommate(t, h, "target", "hi")
	bystander := seedRoommate(t, h, "bystander", "hello")

	rec := httptest.NewRecorder()
	h.DeleteRoommate(rec, withChiParam(httptest.NewRequest("DELETE", "/roommates/x", nil), "id", target.ID))
	require.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())

	assert.Nil(t, h.store.FindByID(ctx, target.ID))
	assert.NotNil(t, h.store.FindByID(ctx, bystander.ID))

	// Deleting again reports not found and leaves the store alone.
	rec = httptest.NewRecorder()
	h.DeleteRoommate(rec, withChiParam(httptest.NewRequest("DELETE", "/roommates/x", nil), "id", target.ID))
	assert.Equal(t, 404, rec.Code)
	assert.Len(t, h.store.LoadPosts(ctx), 1)
}
