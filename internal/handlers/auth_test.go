package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/C241-PS090/backend-api/internal/store"
	"github.com/C241-PS090/backend-api/types"
	"golang.org/x/crypto/bcrypt"
)

func doJSON(t *testing.T, router http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// seedUser inserts a user directly into the fake repo with a bcrypt
// hash of password.
func seedUser(t *testing.T, env *testEnv, email, name, password, role string) types.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := env.users.Create(context.Background(), types.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv()

	first := doJSON(t, env.router, http.MethodPost, "/register", map[string]any{
		"email": "a@x.com", "name": "Ann", "password": "pw1",
	})
	if first.Code != http.StatusOK {
		t.Fatalf("first register: got %d want 200, body %s", first.Code, first.Body)
	}

	second := doJSON(t, env.router, http.MethodPost, "/register", map[string]any{
		"email": "a@x.com", "name": "Bob", "password": "pw2",
	})
	if second.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: got %d want 400", second.Code)
	}
	var resp ErrorResponse
	decodeBody(t, second, &resp)
	if resp.Message != "User already exists" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if len(env.users.users) != 1 {
		t.Fatalf("duplicate register must not create a record, have %d", len(env.users.users))
	}
}

func TestRegister_DefaultsToRegularRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv()

	rec := doJSON(t, env.router, http.MethodPost, "/register", map[string]any{
		"email": "a@x.com", "name": "Ann", "password": "pw1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: got %d want 200", rec.Code)
	}

	user, err := env.users.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("user missing after register: %v", err)
	}
	if user.Role != types.RoleUser {
		t.Fatalf("role mismatch: got %q want %q", user.Role, types.RoleUser)
	}
	if user.PasswordHash == "pw1" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec := doJSON(t, env.router, http.MethodPost, "/login", map[string]any{
		"email": "nobody@x.com", "password": "pw",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "Invalid email" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	seedUser(t, env, "a@x.com", "Ann", "right", types.RoleUser)

	rec := doJSON(t, env.router, http.MethodPost, "/login", map[string]any{
		"email": "a@x.com", "password": "wrong",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "Invalid password" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestLogin_UnknownRoleRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	seedUser(t, env, "a@x.com", "Ann", "pw", "superuser")

	rec := doJSON(t, env.router, http.MethodPost, "/login", map[string]any{
		"email": "a@x.com", "password": "pw",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "Unauthorized" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestLogin_IssuesTokenAndPersistsIt(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	seeded := seedUser(t, env, "a@x.com", "Ann", "pw", types.RoleAdmin)

	rec := doJSON(t, env.router, http.MethodPost, "/login", map[string]any{
		"email": "a@x.com", "password": "pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d want 200, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Message string    `json:"message"`
		Data    LoginData `json:"data"`
	}
	decodeBody(t, rec, &resp)
	if resp.Data.Token == "" {
		t.Fatalf("expected a token in the response")
	}
	if resp.Data.UserID != seeded.ID || resp.Data.Role != types.RoleAdmin {
		t.Fatalf("unexpected login data: %+v", resp.Data)
	}

	// The stored token must match what the caller received.
	stored, err := env.users.GetByToken(context.Background(), resp.Data.Token)
	if err != nil {
		t.Fatalf("stored token lookup: %v", err)
	}
	if stored.ID != seeded.ID {
		t.Fatalf("token persisted on wrong user: %q", stored.ID)
	}

	var tokenCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
		}
	}
	if tokenCookie == nil {
		t.Fatalf("token cookie not set")
	}
	if tokenCookie.Value != resp.Data.Token {
		t.Fatalf("cookie does not carry the issued token")
	}
	if !tokenCookie.HttpOnly || !tokenCookie.Secure {
		t.Fatalf("cookie must be http-only and secure")
	}
	if tokenCookie.MaxAge != 24*60*60 {
		t.Fatalf("cookie max-age mismatch: %d", tokenCookie.MaxAge)
	}
}

func TestLogout_ClearsStoredToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	seedUser(t, env, "a@x.com", "Ann", "pw", types.RoleUser)

	login := doJSON(t, env.router, http.MethodPost, "/login", map[string]any{
		"email": "a@x.com", "password": "pw",
	})
	var resp struct {
		Data LoginData `json:"data"`
	}
	decodeBody(t, login, &resp)

	logout := doJSON(t, env.router, http.MethodDelete, "/logout", nil, &http.Cookie{Name: "token", Value: resp.Data.Token})
	if logout.Code != http.StatusOK {
		t.Fatalf("logout: got %d want 200, body %s", logout.Code, logout.Body)
	}

	if _, err := env.users.GetByToken(context.Background(), resp.Data.Token); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("token should no longer resolve to a user, got %v", err)
	}
}

func TestLogout_UnknownToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec := doJSON(t, env.router, http.MethodDelete, "/logout", nil, &http.Cookie{Name: "token", Value: "stale"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "User not found" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestLogout_MissingCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec := doJSON(t, env.router, http.MethodDelete, "/logout", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rec.Code)
	}
}

func TestRequireAuth_AcceptsCookieToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	seedUser(t, env, "a@x.com", "Ann", "pw", types.RoleUser)

	login := doJSON(t, env.router, http.MethodPost, "/login", map[string]any{
		"email": "a@x.com", "password": "pw",
	})
	var resp struct {
		Data LoginData `json:"data"`
	}
	decodeBody(t, login, &resp)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: resp.Data.Token})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie auth: got %d want 200", rec.Code)
	}
}

func TestRequireAuth_RejectsGarbageToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+strings.Repeat("x", 32))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d want 401", rec.Code)
	}
}
