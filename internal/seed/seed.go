// Package seed fills a data directory with plausible development data.
// Intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"

	"github.com/SONU-ux-it/knhaji/internal/models"
	"github.com/SONU-ux-it/knhaji/internal/store"
)

var (
	locations = []string{
		"Baneshwor", "Patan", "Koteshwor", "Kalanki", "Maitidevi",
		"Boudha", "Kirtipur", "Balaju", "Chabahil", "Sanepa",
	}
	roomTypes  = []string{"single", "double", "1BHK", "2BHK", "shared"}
	genders    = []string{"any", "male", "female"}
	facilities = []string{
		"wifi", "parking", "water tank", "attached bathroom",
		"balcony", "furnished", "kitchen", "rooftop access",
	}
)

// Options configures one seeding run.
type Options struct {
	Rooms     int
	Roommates int
	// HiddenEvery hides every n-th record of each type, so the admin view
	// has something the public listings don't. 0 hides nothing.
	HiddenEvery int
	// MaxAgeDays spreads creation timestamps over the past n days
	// (default 90) instead of stamping everything "just now".
	MaxAgeDays int
	// Clean overwrites both documents with empty ones first.
	Clean bool
}

// Summary reports what a run created.
type Summary struct {
	Rooms        int
	Roommates    int
	Replies      int
	ChatMessages int
}

// Seeder builds fake posts and chats and persists them through the store,
// so seeded documents look exactly like organically grown ones.
type Seeder struct {
	store  *store.Store
	logger zerolog.Logger
}

// New creates a Seeder bound to the given store.
func New(s *store.Store, logger zerolog.Logger) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{store: s, logger: logger}
}

// Run populates the store per opts and reports what it made.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	if opts.Clean {
		if err := s.store.SavePosts(ctx, nil); err != nil {
			return sum, fmt.Errorf("clean posts: %w", err)
		}
		if err := s.store.SaveChats(ctx, nil); err != nil {
			return sum, fmt.Errorf("clean chats: %w", err)
		}
		s.logger.Info().Msg("documents cleaned")
	}

	for i := 0; i < opts.Rooms; i++ {
		post := s.fakeRoom(opts.MaxAgeDays)
		if opts.HiddenEvery > 0 && (i+1)%opts.HiddenEvery == 0 {
			post.Hidden = true
		}
		if err := s.store.AppendPost(ctx, post); err != nil {
			return sum, fmt.Errorf("seed room: %w", err)
		}
		sum.Rooms++

		if gofakeit.Bool() {
			n, err := s.seedChat(ctx, post.ID)
			if err != nil {
				return sum, err
			}
			sum.ChatMessages += n
		}
	}

	for i := 0; i < opts.Roommates; i++ {
		post := s.fakeRoommate(opts.MaxAgeDays)
		if opts.HiddenEvery > 0 && (i+1)%opts.HiddenEvery == 0 {
			post.Hidden = true
		}
		if err := s.store.AppendPost(ctx, post); err != nil {
			return sum, fmt.Errorf("seed roommate: %w", err)
		}
		sum.Roommates++
		sum.Replies += len(post.Replies)

		if gofakeit.Bool() {
			n, err := s.seedChat(ctx, post.ID)
			if err != nil {
				return sum, err
			}
			sum.ChatMessages += n
		}
	}

	return sum, nil
}

func (s *Seeder) fakeRoom(maxAgeDays int) *models.Post {
	location := gofakeit.RandomString(locations)

	images := make([]string, gofakeit.Number(0, 3))
	for i := range images {
		images[i] = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}

	return &models.Post{
		Type:          models.PostTypeRoom,
		Timestamp:     spreadTimestamp(maxAgeDays),
		Name:          gofakeit.Name(),
		Gender:        gofakeit.RandomString(genders),
		Phone:         gofakeit.Phone(),
		Email:         gofakeit.Email(),
		Location:      location,
		RentByPerson:  strconv.Itoa(gofakeit.Number(4000, 25000)),
		Deposit:       strconv.Itoa(gofakeit.Number(5000, 50000)),
		RoomType:      gofakeit.RandomString(roomTypes),
		AvailableFrom: gofakeit.FutureDate().Format("2006-01-02"),
		Facilities:    pickFacilities(),
		MapLink:       "https://maps.google.com/?q=" + url.QueryEscape(location+", Kathmandu"),
		ImageLinks:    images,
	}
}

func (s *Seeder) fakeRoommate(maxAgeDays int) *models.Post {
	post := &models.Post{
		Type:      models.PostTypeRoommate,
		Timestamp: spreadTimestamp(maxAgeDays),
		Name:      gofakeit.Name(),
		Gender:    gofakeit.RandomString(genders),
		Phone:     gofakeit.Phone(),
		Email:     gofakeit.Email(),
		Message: fmt.Sprintf("Looking for a roommate near %s. %s",
			gofakeit.RandomString(locations), gofakeit.Sentence(10)),
	}

	for i := 0; i < gofakeit.Number(0, 3); i++ {
		post.Replies = append(post.Replies, models.Reply{
			SenderName:   gofakeit.Name(),
			SenderEmail:  gofakeit.Email(),
			ReplyMessage: gofakeit.Sentence(8),
			Timestamp:    spreadTimestamp(maxAgeDays),
		})
	}
	return post
}

// seedChat appends a short back-and-forth to the post's chat history.
func (s *Seeder) seedChat(ctx context.Context, postID string) (int, error) {
	asker := models.ChatEntry{SenderName: gofakeit.Name(), SenderEmail: gofakeit.Email()}

	n := gofakeit.Number(1, 4)
	for i := 0; i < n; i++ {
		entry := asker
		entry.Message = gofakeit.Sentence(gofakeit.Number(4, 12))
		if err := s.store.AppendChatEntry(ctx, postID, &entry); err != nil {
			return i, fmt.Errorf("seed chat: %w", err)
		}
	}
	return n, nil
}

func pickFacilities() string {
	shuffled := make([]string, len(facilities))
	copy(shuffled, facilities)
	gofakeit.ShuffleStrings(shuffled)
	return strings.Join(shuffled[:gofakeit.Number(2, 4)], ", ")
}

func spreadTimestamp(maxAgeDays int) string {
	if maxAgeDays <= 0 {
		maxAgeDays = 90
	}
	age := time.Duration(gofakeit.Number(0, maxAgeDays*24*60)) * time.Minute
	return time.Now().Add(-age).UTC().Format(time.RFC3339)
}
