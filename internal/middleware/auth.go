package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/shedworks/shed-tracker/internal/httputil"
)

const sessionAuthKey = "authenticated"

// Login marks the session as authenticated after a successful app-password
// check.
func Login(sessionManager *scs.SessionManager, r *http.Request) {
	sessionManager.Put(r.Context(), sessionAuthKey, true)
}

func Logout(sessionManager *scs.SessionManager, r *http.Request) {
	sessionManager.Remove(r.Context(), sessionAuthKey)
}

// VerifyPassword is a constant-time comparison for the shared app and admin
// passwords.
func VerifyPassword(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// RequireAuth rejects requests whose session has not passed the app-password
// gate.
func RequireAuth(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessionManager.GetBool(r.Context(), sessionAuthKey) {
				httputil.Unauthorized(w, "Not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
