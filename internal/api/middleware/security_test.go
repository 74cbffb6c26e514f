package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeadersVaryCSPByPath(t *testing.T) {
	handler := SecurityHeaders(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/rooms", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "res.cloudinary.com")
}

func TestValidateRequestContentTypes(t *testing.T) {
	handler := ValidateRequest(okHandler())

	tests := []struct {
		name        string
		contentType string
		want        int
	}{
		{"json accepted", "application/json", http.StatusOK},
		{"json with charset accepted", "application/json; charset=utf-8", http.StatusOK},
		{"multipart accepted", "multipart/form-data; boundary=xyz", http.StatusOK},
		{"form rejected", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"plain text rejected", "text/plain", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/rooms", strings.NewReader("body"))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("empty body needs no content type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/admin/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("GET ignores content type", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/rooms", nil)
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestValidateRequestSuspiciousPatterns(t *testing.T) {
	handler := ValidateRequest(okHandler())

	for _, target := range []string{
		"/rooms/../data",
		"/rooms?q=<script>alert(1)</script>",
		"/rooms?next=javascript:void(0)",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/rooms", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaxBodySize(t *testing.T) {
	handler := MaxBodySize(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rooms", strings.NewReader("tiny"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("declared oversize rejected up front", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rooms", strings.NewReader(strings.Repeat("x", 64)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("undeclared oversize caught by reader", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rooms", strings.NewReader(strings.Repeat("x", 64)))
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestContainsSuspiciousPatterns(t *testing.T) {
	require.False(t, containsSuspiciousPatterns(""))
	require.False(t, containsSuspiciousPatterns("/rooms"))
	require.True(t, containsSuspiciousPatterns("/a/../b"))
	require.True(t, containsSuspiciousPatterns("q=<SCRIPT>"))
	require.True(t, containsSuspiciousPatterns("onerror=alert(1)"))
}
