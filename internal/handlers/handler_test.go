package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/SONU-ux-it/knhaji/internal/api/middleware"
	"github.com/SONU-ux-it/knhaji/internal/store"
	"github.com/SONU-ux-it/knhaji/internal/upload"
)

// fakeUploader stands in for the image host. It honors the Uploader
// contract of removing the spooled file on both outcomes.
type fakeUploader struct {
	fail  bool
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (string, error) {
	os.Remove(localPath)
	f.calls++
	if f.fail {
		return "", errors.New("image host unavailable")
	}
	return fmt.Sprintf("https://img.example.com/u/%d.jpg", f.calls), nil
}

func newTestHandler(t *testing.T, up upload.Uploader) *Handler {
	t.Helper()

	s, err := store.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	auth, err := middleware.NewAdminAuth("admin", "admin123")
	require.NoError(t, err)

	return NewHandler(s, nil, up, auth, filepath.Join(t.TempDir(), "uploads"), zerolog.Nop())
}

// withChiParam injects a URL parameter the way the router would, so
// handlers can be exercised without standing up the full route table.
func withChiParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRoomRequest builds a room creation request with text fields,
// repeatable imageLinks values and inline image parts.
func multipartRoomRequest(t *testing.T, fields map[string]string, links []string, imageCount int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, l := range links {
		require.NoError(t, w.WriteField("imageLinks", l))
	}
	for i := 0; i < imageCount; i++ {
		fw, err := w.CreateFormFile("images", fmt.Sprintf("photo-%d.jpg", i))
		require.NoError(t, err)
		_, err = fw.Write([]byte("not really a jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/rooms", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
