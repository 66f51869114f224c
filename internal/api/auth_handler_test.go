package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/auth"
	"github.com/shopcore/backend/internal/blob"
	"github.com/shopcore/backend/internal/cart"
	"github.com/shopcore/backend/internal/catalog"
	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/password"
	"github.com/shopcore/backend/internal/session"
	"github.com/shopcore/backend/internal/store/memory"
	"github.com/shopcore/backend/internal/token"
)

type testEnv struct {
	server *httptest.Server
	client *http.Client
	users  *memory.UserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	issuer, err := token.NewIssuer(token.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	hasher, err := password.NewHasher(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := memory.NewUserStore()
	products := memory.NewProductStore()

	authSvc := auth.NewService(users, session.NewCache(rdb), issuer, hasher, nil, nil, log)
	catalogSvc := catalog.NewService(products, rdb, blob.NewPassthroughUploader(), nil, log)
	cartSvc := cart.NewService(users, products, log)

	api := NewServer(authSvc, catalogSvc, cartSvc, NewCookies(15*time.Minute, 7*24*time.Hour, false), nil, log)
	srv := httptest.NewServer(api.Router(nil))
	t.Cleanup(srv.Close)

	jar := &cookieJar{cookies: map[string]*http.Cookie{}}
	return &testEnv{
		server: srv,
		client: &http.Client{Jar: jar},
		users:  users,
	}
}

// cookieJar keeps the latest cookie per name, including expired ones being
// cleared, which is all these tests need.
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func (j *cookieJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	for _, c := range cookies {
		if c.MaxAge < 0 || c.Value == "" {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = c
	}
}

func (j *cookieJar) Cookies(_ *url.URL) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		out = append(out, c)
	}
	return out
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	msg, _ := payload["message"].(string)
	return msg
}

func TestAuthFlowEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	// Signup sets both cookies and returns the public user.
	resp := env.do(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","email":"ada@x.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		User    model.PublicUser `json:"user"`
		Message string           `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, "ada@x.com", created.User.Email)
	require.Equal(t, "user", string(created.User.Role))

	names := map[string]bool{}
	for _, c := range resp.Cookies() {
		names[c.Name] = true
		require.True(t, c.HttpOnly, "cookie %s must be HttpOnly", c.Name)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}
	require.True(t, names["access_token"] && names["refresh_token"])

	var firstAccess string
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			firstAccess = c.Value
		}
	}
	require.NotEmpty(t, firstAccess)

	// Duplicate signup, regardless of casing, is a 400.
	resp = env.do(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","email":"ADA@x.com","password":"password123"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "User already exists", decodeMessage(t, resp))

	// Profile works with the access cookie from signup.
	resp = env.do(t, http.MethodGet, "/api/auth/profile", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Refresh mints a fresh, distinct access cookie.
	resp = env.do(t, http.MethodPost, "/api/auth/refresh-token", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Token refreshed successfully", decodeMessage(t, resp))
	var refreshedAccess string
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			refreshedAccess = c.Value
		}
	}
	require.NotEmpty(t, refreshedAccess)
	require.NotEqual(t, firstAccess, refreshedAccess)

	// Logout clears cookies and revokes the session.
	resp = env.do(t, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Logged out successfully", decodeMessage(t, resp))

	resp = env.do(t, http.MethodPost, "/api/auth/refresh-token", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "No refresh token provided", decodeMessage(t, resp))

	// Login with the wrong password is a uniform 401.
	resp = env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ada@x.com","password":"wrong-password"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid email or password", decodeMessage(t, resp))

	// Login with the right password restores the session.
	resp = env.do(t, http.MethodPost, "/api/auth/login",
		`{"email":"ada@x.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/auth/profile", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@x.com","password":"password123"}`},
		{"bad email", `{"name":"A","email":"not-an-email","password":"password123"}`},
		{"short password", `{"name":"A","email":"a@x.com","password":"short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/auth/signup", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		})
	}

	resp := env.do(t, http.MethodPost, "/api/auth/signup", `not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutWithoutCookiesSucceeds(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Logged out successfully", decodeMessage(t, resp))
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/cart/", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "No access token provided", decodeMessage(t, resp))

	// A plain user cannot reach admin product routes.
	resp = env.do(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","email":"ada@x.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/products/",
		`{"name":"lamp","price":9.99,"image":"https://cdn.example.com/lamp.jpg","category":"misc"}`)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Admin access required", decodeMessage(t, resp))
}

func TestAdminProductAndCartFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := env.do(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Root","email":"root@x.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Promote the account directly in the store; role changes have no
	// HTTP surface.
	user, err := env.users.FindByEmail(ctx, "root@x.com")
	require.NoError(t, err)
	require.NoError(t, env.users.SetRole(ctx, user.ID, model.RoleAdmin))

	resp = env.do(t, http.MethodPost, "/api/products/",
		`{"name":"lamp","price":9.99,"image":"https://cdn.example.com/lamp.jpg","category":"home","isFeatured":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	require.NotEmpty(t, product.ID)
	require.Equal(t, "https://cdn.example.com/lamp.jpg", product.Image)

	resp = env.do(t, http.MethodGet, "/api/products/featured", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Cart roundtrip: add, read, update quantity, remove.
	resp = env.do(t, http.MethodPost, "/api/cart/", `{"productId":"`+product.ID+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/cart/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []cart.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Quantity)

	resp = env.do(t, http.MethodPut, "/api/cart/"+product.ID, `{"quantity":4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/cart/", `{"productId":"`+product.ID+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting the product invalidates the featured listing.
	resp = env.do(t, http.MethodDelete, "/api/products/"+product.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/products/featured", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
