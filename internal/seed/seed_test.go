package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SONU-ux-it/knhaji/internal/models"
	"github.com/SONU-ux-it/knhaji/internal/store"
)

func newSeeder(t *testing.T) (*Seeder, *store.Store) {
	t.Helper()
	s, err := store.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return New(s, zerolog.Nop()), s
}

func TestRunCreatesRequestedCounts(t *testing.T) {
	seeder, s := newSeeder(t)
	ctx := context.Background()

	sum, err := seeder.Run(ctx, Options{Rooms: 7, Roommates: 4, HiddenEvery: 3})
	require.NoError(t, err)

	assert.Equal(t, 7, sum.Rooms)
	assert.Equal(t, 4, sum.Roommates)

	rooms := s.FilterByType(ctx, models.PostTypeRoom)
	roommates := s.FilterByType(ctx, models.PostTypeRoommate)
	require.Len(t, rooms, 7)
	require.Len(t, roommates, 4)

	// HiddenEvery=3 hides records 3 and 6 of the rooms, record 3 of the
	// roommates.
	hiddenRooms := 0
	for _, p := range rooms {
		if p.Hidden {
			hiddenRooms++
		}
	}
	assert.Equal(t, 2, hiddenRooms)
	assert.Len(t, s.FilterVisible(ctx, models.PostTypeRoom), 5)
}

func TestRunProducesWellFormedPosts(t *testing.T) {
	seeder, s := newSeeder(t)
	ctx := context.Background()

	_, err := seeder.Run(ctx, Options{Rooms: 5, Roommates: 5, MaxAgeDays: 30})
	require.NoError(t, err)

	for _, p := range s.LoadPosts(ctx) {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Timestamp)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Phone)
		assert.NotEmpty(t, p.Email)

		switch p.Type {
		case models.PostTypeRoom:
			assert.NotEmpty(t, p.Location)
			assert.NotEmpty(t, p.RentByPerson)
			assert.Empty(t, p.Message)
		case models.PostTypeRoommate:
			assert.NotEmpty(t, p.Message)
			assert.Empty(t, p.Location)
		default:
			t.Fatalf("unexpected post type %q", p.Type)
		}
	}
}

func TestRunCleanWipesExistingData(t *testing.T) {
	seeder, s := newSeeder(t)
	ctx := context.Background()

	stale := &models.Post{Type: models.PostTypeRoom, Name: "stale"}
	require.NoError(t, s.AppendPost(ctx, stale))
	require.NoError(t, s.AppendChatEntry(ctx, stale.ID, &models.ChatEntry{Message: "old"}))

	_, err := seeder.Run(ctx, Options{Rooms: 2, Clean: true})
	require.NoError(t, err)

	posts := s.LoadPosts(ctx)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.NotEqual(t, "stale", p.Name)
	}
	assert.Empty(t, s.ChatHistory(ctx, stale.ID))
}

func TestRunWithoutCleanAppends(t *testing.T) {
	seeder, s := newSeeder(t)
	ctx := context.Background()

	_, err := seeder.Run(ctx, Options{Rooms: 2})
	require.NoError(t, err)
	_, err = seeder.Run(ctx, Options{Rooms: 3})
	require.NoError(t, err)

	assert.Len(t, s.FilterByType(ctx, models.PostTypeRoom), 5)
}

func TestChatMessagesLandInHistories(t *testing.T) {
	seeder, s := newSeeder(t)
	ctx := context.Background()

	sum, err := seeder.Run(ctx, Options{Rooms: 20})
	require.NoError(t, err)

	total := 0
	for _, history := range s.LoadChats(ctx) {
		total += len(history)
	}
	assert.Equal(t, sum.ChatMessages, total)
}
