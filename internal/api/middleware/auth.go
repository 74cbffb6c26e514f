package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminAuth checks the single fixed admin credential pair. The password is
// bcrypt-hashed once at startup so request handling never touches the
// plaintext; the username comparison is constant time.
type AdminAuth struct {
	username     string
	passwordHash []byte
}

// NewAdminAuth hashes the configured password and returns the checker.
func NewAdminAuth(username, password string) (*AdminAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminAuth{username: username, passwordHash: hash}, nil
}

// Verify reports whether the pair matches the configured credential. Any
// mismatch is a plain rejection; there is no lockout and no session state.
func (a *AdminAuth) Verify(username, password string) bool {
	// Evaluate both legs unconditionally.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

// RequireAdmin gates a route subtree behind HTTP Basic auth with the admin
// credential.
func (a *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !a.Verify(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="knhaji admin"`)
			writeJSONError(w, http.StatusUnauthorized, "admin credentials required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSONError writes {"error": message} with the given status.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
