package api

import (
	"net/http"
	"time"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// Cookies writes and reads the two auth cookies. Both are HttpOnly with
// SameSite=Strict; Secure is set outside development so local HTTP still
// works.
type Cookies struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
}

func NewCookies(accessTTL, refreshTTL time.Duration, secure bool) Cookies {
	return Cookies{accessTTL: accessTTL, refreshTTL: refreshTTL, secure: secure}
}

// Emit sets both auth cookies.
func (c Cookies) Emit(w http.ResponseWriter, access, refresh string) {
	c.set(w, accessCookie, access, c.accessTTL)
	c.set(w, refreshCookie, refresh, c.refreshTTL)
}

// EmitAccess replaces only the access cookie, leaving the refresh cookie
// untouched.
func (c Cookies) EmitAccess(w http.ResponseWriter, access string) {
	c.set(w, accessCookie, access, c.accessTTL)
}

// Clear expires both auth cookies.
func (c Cookies) Clear(w http.ResponseWriter) {
	c.set(w, accessCookie, "", -time.Second)
	c.set(w, refreshCookie, "", -time.Second)
}

// ReadAccess returns the access token cookie value, or "" when absent.
func (c Cookies) ReadAccess(r *http.Request) string {
	return read(r, accessCookie)
}

// ReadRefresh returns the refresh token cookie value, or "" when absent.
func (c Cookies) ReadRefresh(r *http.Request) string {
	return read(r, refreshCookie)
}

func (c Cookies) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func read(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
