package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SONU-ux-it/knhaji/internal/metrics"
	"github.com/SONU-ux-it/knhaji/internal/models"
)

const (
	postsFile = "posts.json"
	chatsFile = "chats.json"

	documentPosts = "posts"
	documentChats = "chats"
)

// Store owns the two backing JSON documents of the service: the flat posts
// collection (room listings and roommate posts in one ordered list) and the
// chat histories keyed by post id. Every operation re-reads the whole
// document, transforms it in memory and rewrites it whole; there is no
// cache, no lock and no cross-operation transaction. Writes are not atomic
// (a crash mid-write can corrupt a document) and concurrent writers can lose
// updates (last write wins); both are part of the storage contract this
// service inherits. Contexts are accepted for API uniformity; an operation
// runs to completion once started.
type Store struct {
	dataDir   string
	postsPath string
	chatsPath string
	logger    zerolog.Logger
}

// New creates a store rooted at dataDir, creating the directory if needed.
// If dataDir is empty, defaults to "./data".
func New(dataDir string, logger zerolog.Logger) (*Store, error) {
	if dataDir == "" {
		dataDir = "./data"
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	return &Store{
		dataDir:   dataDir,
		postsPath: filepath.Join(dataDir, postsFile),
		chatsPath: filepath.Join(dataDir, chatsFile),
		logger:    logger,
	}, nil
}

// Ping checks that the data directory is still present and usable.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dataDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dataDir)
	}
	return nil
}

// readDoc loads one backing document into v. It reports whether v holds a
// usable decode: an absent document is a normal empty read (first boot), an
// unreadable or corrupt one degrades to empty with an error log and a
// metric. Callers never observe the difference.
func (s *Store) readDoc(path, document string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug().Str("document", document).Msg("backing document absent, serving empty")
			return false
		}
		metrics.StorageReadDegraded.WithLabelValues(document, "unreadable").Inc()
		s.logger.Error().Err(err).Str("document", document).Msg("backing document unreadable, serving empty")
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		metrics.StorageReadDegraded.WithLabelValues(document, "corrupt").Inc()
		s.logger.Error().Err(err).Str("document", document).Msg("backing document corrupt, serving empty")
		return false
	}
	return true
}

// writeDoc serializes v and overwrites the document in place. Deliberately
// no temp-file-and-rename: a crash mid-write corrupts the document, and the
// next read degrades to empty.
func (s *Store) writeDoc(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPosts reads the full posts collection. An absent, unreadable or
// unparsable document yields an empty collection.
func (s *Store) LoadPosts(ctx context.Context) []models.Post {
	var posts []models.Post
	if !s.readDoc(s.postsPath, documentPosts, &posts) || posts == nil {
		return []models.Post{}
	}
	return posts
}

// SavePosts serializes the entire collection and overwrites the posts
// document.
func (s *Store) SavePosts(ctx context.Context, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	return s.writeDoc(s.postsPath, posts)
}

// FindByID returns the post with the given id, or nil. Ids are opaque
// strings; a malformed id is simply one that matches nothing.
func (s *Store) FindByID(ctx context.Context, id string) *models.Post {
	for _, p := range s.LoadPosts(ctx) {
		if p.ID == id {
			post := p
			return &post
		}
	}
	return nil
}

// FilterByType returns the sub-sequence of posts matching typ, preserving
// collection order. Recomputed fresh on every call.
func (s *Store) FilterByType(ctx context.Context, typ models.PostType) []models.Post {
	posts := s.LoadPosts(ctx)
	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Type == typ {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterVisible returns the posts of the given type that are not hidden,
// preserving collection order.
func (s *Store) FilterVisible(ctx context.Context, typ models.PostType) []models.Post {
	posts := s.LoadPosts(ctx)
	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Type == typ && !p.Hidden {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ResolveByFilteredIndex returns the index-th record of the sub-sequence of
// posts matching typ, or nil when the index is out of bounds. The filtered
// view is recomputed from the document on every call, so a record's index
// shifts whenever an earlier record of the same type is inserted or removed;
// an index taken from a previous listing is only valid while the collection
// is unchanged.
func (s *Store) ResolveByFilteredIndex(ctx context.Context, typ models.PostType, index int) *models.Post {
	if index < 0 {
		return nil
	}
	filtered := s.FilterByType(ctx, typ)
	if index >= len(filtered) {
		return nil
	}
	post := filtered[index]
	return &post
}

// AppendPost appends a post to the end of the collection and saves. The id
// (UUID) and creation timestamp are assigned here when unset; uniqueness
// holds by construction and is never checked.
func (s *Store) AppendPost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Timestamp == "" {
		post.Timestamp = models.NowTimestamp()
	}

	posts := s.LoadPosts(ctx)
	posts = append(posts, *post)
	return s.SavePosts(ctx, posts)
}

// UpdateByID applies mutate to the post with the given id and saves the
// whole collection. Returns false without touching the document when the id
// resolves to nothing.
func (s *Store) UpdateByID(ctx context.Context, id string, mutate func(*models.Post)) (bool, error) {
	posts := s.LoadPosts(ctx)
	for i := range posts {
		if posts[i].ID == id {
			mutate(&posts[i])
			return true, s.SavePosts(ctx, posts)
		}
	}
	return false, nil
}

// RemoveByID physically removes the post with the given id, preserving the
// relative order of the remainder. Returns false without touching the
// document when the id resolves to nothing.
func (s *Store) RemoveByID(ctx context.Context, id string) (bool, error) {
	posts := s.LoadPosts(ctx)
	for i := range posts {
		if posts[i].ID == id {
			posts = append(posts[:i], posts[i+1:]...)
			return true, s.SavePosts(ctx, posts)
		}
	}
	return false, nil
}

// UpdateByFilteredIndex applies mutate to the index-th post of the given
// type and saves. Returns false without touching the document when the index
// is out of bounds. See ResolveByFilteredIndex for the stability caveat.
func (s *Store) UpdateByFilteredIndex(ctx context.Context, typ models.PostType, index int, mutate func(*models.Post)) (bool, error) {
	if index < 0 {
		return false, nil
	}
	posts := s.LoadPosts(ctx)
	seen := 0
	for i := range posts {
		if posts[i].Type != typ {
			continue
		}
		if seen == index {
			mutate(&posts[i])
			return true, s.SavePosts(ctx, posts)
		}
		seen++
	}
	return false, nil
}

// RemoveByFilteredIndex physically removes the index-th post of the given
// type. Returns false without touching the document when the index is out of
// bounds.
func (s *Store) RemoveByFilteredIndex(ctx context.Context, typ models.PostType, index int) (bool, error) {
	if index < 0 {
		return false, nil
	}
	posts := s.LoadPosts(ctx)
	seen := 0
	for i := range posts {
		if posts[i].Type != typ {
			continue
		}
		if seen == index {
			posts = append(posts[:i], posts[i+1:]...)
			return true, s.SavePosts(ctx, posts)
		}
		seen++
	}
	return false, nil
}

// LoadChats reads the full chat document: post id → ordered history. Same
// degrade-to-empty behavior as LoadPosts.
func (s *Store) LoadChats(ctx context.Context) map[string][]models.ChatEntry {
	var chats map[string][]models.ChatEntry
	if !s.readDoc(s.chatsPath, documentChats, &chats) || chats == nil {
		return map[string][]models.ChatEntry{}
	}
	return chats
}

// SaveChats serializes the entire chat map and overwrites the chats
// document.
func (s *Store) SaveChats(ctx context.Context, chats map[string][]models.ChatEntry) error {
	if chats == nil {
		chats = map[string][]models.ChatEntry{}
	}
	return s.writeDoc(s.chatsPath, chats)
}

// AppendChatEntry appends an entry to the history for postID, creating the
// key on first append. The entry timestamp is assigned here when unset.
// Histories are FIFO and never reordered. No check is made that postID
// refers to an existing post.
func (s *Store) AppendChatEntry(ctx context.Context, postID string, entry *models.ChatEntry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = models.NowTimestamp()
	}

	chats := s.LoadChats(ctx)
	chats[postID] = append(chats[postID], *entry)
	return s.SaveChats(ctx, chats)
}

// ChatHistory returns the full ordered history for postID, or an empty
// sequence when none exists.
func (s *Store) ChatHistory(ctx context.Context, postID string) []models.ChatEntry {
	entries := s.LoadChats(ctx)[postID]
	if entries == nil {
		return []models.ChatEntry{}
	}
	return entries
}
