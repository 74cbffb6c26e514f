package knhaji

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SONU-ux-it/knhaji/internal/api"
	"github.com/SONU-ux-it/knhaji/internal/config"
	"github.com/SONU-ux-it/knhaji/internal/store"
)

// newTestServer runs the real router over a temp-dir store, with no Redis
// and no image host, and returns a client pointed at it.
func newTestServer(t *testing.T) *Client {
	t.Helper()

	dir := t.TempDir()
	st, err := store.New(dir, zerolog.Nop())
	require.NoError(t, err)

	cfg := &config.Config{
		Env:           "test",
		DataDir:       dir,
		UploadTempDir: filepath.Join(dir, "uploads"),
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}

	router, err := api.NewRouter(zerolog.Nop(), cfg, st, nil, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL)
}

func TestClientRoomLifecycle(t *testing.T) {
	c := newTestServer(t)

	created, err := c.CreateRoom(CreateRoomRequest{
		Name:         "Shristi",
		Phone:        "9800000001",
		Email:        "shristi@example.com",
		Location:     "Baneshwor",
		RentByPerson: "9000",
		RoomType:     "double",
		ImageLinks:   []string{"https://img.example.com/room.jpg"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"https://img.example.com/room.jpg"}, created.ImageLinks)

	rooms, err := c.ListRooms()
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, created.ID, rooms[0].ID)
	assert.Equal(t, "Baneshwor", rooms[0].Location)
	assert.NotEmpty(t, rooms[0].Timestamp)

	// Admin flow: login, hide, patch, delete by index.
	require.NoError(t, c.AdminLogin("admin", "admin123"))

	hidden, err := c.AdminSetRoomHidden(0, true)
	require.NoError(t, err)
	assert.True(t, hidden.Hidden)

	rooms, err = c.ListRooms()
	require.NoError(t, err)
	assert.Empty(t, rooms, "hidden rooms must drop out of the public list")

	all, err := c.AdminRooms()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Hidden)

	deposit := "15000"
	patched, err := c.AdminEditRoom(0, RoomPatch{Deposit: &deposit})
	require.NoError(t, err)
	assert.Equal(t, "15000", patched.Deposit)
	assert.Equal(t, "Baneshwor", patched.Location, "unpatched fields keep their values")
	assert.NotEmpty(t, patched.UpdatedAt)

	require.NoError(t, c.AdminDeleteRoom(0))

	all, err = c.AdminRooms()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClientRoommateLifecycle(t *testing.T) {
	c := newTestServer(t)

	created, err := c.CreateRoommate(CreateRoommateRequest{
		Name:    "Anish",
		Gender:  "male",
		Phone:   "9800000002",
		Email:   "anish@example.com",
		Message: "looking for a flatmate in Kirtipur",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Timestamp)

	reply, err := c.AddReply(created.ID, "Bina", "bina@example.com", "still available?")
	require.NoError(t, err)
	assert.Equal(t, "Bina", reply.SenderName)
	assert.NotEmpty(t, reply.Timestamp)

	posts, err := c.ListRoommates()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].Replies, 1)
	assert.Equal(t, "still available?", posts[0].Replies[0].ReplyMessage)

	updated, err := c.UpdateMessage(created.ID, "found one, thanks")
	require.NoError(t, err)
	assert.Equal(t, "found one, thanks", updated.Message)
	assert.NotEmpty(t, updated.UpdatedAt)
	assert.Len(t, updated.Replies, 1, "message edits keep replies")

	require.NoError(t, c.DeleteRoommate(created.ID))

	err = c.DeleteRoommate(created.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClientChatRoundTrip(t *testing.T) {
	c := newTestServer(t)

	history, err := c.ChatHistory("nonexistent-post")
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = c.SendChatMessage("post-9", "Gita", "gita@example.com", "is the room near the bus stop?")
	require.NoError(t, err)
	_, err = c.SendChatMessage("post-9", "Hari", "hari@example.com", "five minutes on foot")
	require.NoError(t, err)

	history, err = c.ChatHistory("post-9")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Gita", history[0].SenderName)
	assert.Equal(t, "Hari", history[1].SenderName)
}

func TestClientAdminAuth(t *testing.T) {
	c := newTestServer(t)

	err := c.AdminLogin("admin", "wrong")
	require.Error(t, err)
	assert.Empty(t, c.AdminPassword, "rejected logins must not store credentials")

	_, err = c.AdminRooms()
	require.Error(t, err, "admin routes reject missing credentials")
	assert.Contains(t, err.Error(), "401")

	require.NoError(t, c.AdminLogin("admin", "admin123"))
	_, err = c.AdminRooms()
	assert.NoError(t, err)
}

func TestClientStatsAndHealth(t *testing.T) {
	c := newTestServer(t)

	_, err := c.CreateRoom(CreateRoomRequest{Name: "a"})
	require.NoError(t, err)
	created, err := c.CreateRoommate(CreateRoommateRequest{Name: "b", Message: "hi"})
	require.NoError(t, err)
	_, err = c.AddReply(created.ID, "c", "c@example.com", "hello")
	require.NoError(t, err)
	_, err = c.SendChatMessage(created.ID, "d", "d@example.com", "hey")
	require.NoError(t, err)

	require.NoError(t, c.AdminLogin("admin", "admin123"))
	stats, err := c.AdminGetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rooms)
	assert.Equal(t, 1, stats.Roommates)
	assert.Equal(t, 1, stats.Replies)
	assert.Equal(t, 1, stats.ChatMessages)
	assert.Equal(t, 0, stats.Hidden)

	health, err := c.Health()
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Checks, "storage")
}
