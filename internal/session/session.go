package session

import (
	"net/http"
	"time"
)

const CookieName = "auth_token"

// Carrier binds session tokens to the auth cookie. Cookie attributes are
// fixed here and nowhere else: HttpOnly, Path "/", SameSite Lax, Secure in
// production, MaxAge matching the token TTL. The MaxAge is a cleanup hint
// for the browser; token expiry remains the source of truth for validity.
type Carrier struct {
	secure bool
	maxAge time.Duration
}

func NewCarrier(secure bool, maxAge time.Duration) *Carrier {
	return &Carrier{secure: secure, maxAge: maxAge}
}

func (c *Carrier) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.maxAge.Seconds()),
	})
}

// Read returns the token from the request cookie. Absence is a normal
// outcome, not an error.
func (c *Carrier) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

// Clear deletes the auth cookie. Idempotent: clearing an absent cookie is
// fine.
func (c *Carrier) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
