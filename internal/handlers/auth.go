package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/C241-PS090/backend-api/internal/auth"
	"github.com/C241-PS090/backend-api/internal/services"
	"github.com/C241-PS090/backend-api/internal/store"
	"github.com/C241-PS090/backend-api/types"
	"golang.org/x/crypto/bcrypt"
)

// tokenCookieMaxAge matches the session cookie lifetime. The token
// itself carries no expiry.
const tokenCookieMaxAge = 24 * 60 * 60

const tokenCookieName = "token"

// AuthHandler provides registration, login, and logout endpoints.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      []byte(jwtSecret),
	}
}

// RequireAuth verifies the session token from the Authorization header
// or the token cookie and injects its claims into the request context.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := requestToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := auth.Verify(tokenString, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type RegisterRequest struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Gender   *string `json:"gender"`
	Age      *int    `json:"age"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginData is the payload returned on successful login.
type LoginData struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

// Register creates a new user account. Email uniqueness is checked by a
// lookup before insert; two concurrent registrations can race.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Role == "" {
		req.Role = types.RoleUser
	}

	if _, err := h.userService.GetByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "Error checking user")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error registering user")
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: string(hashed),
		Gender:       req.Gender,
		Age:          req.Age,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error registering user")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "User registered successfully",
		Data:    userEnvelope{ID: user.ID, Data: user},
	})
}

// Login verifies credentials, issues a session token, persists it on
// the user record, and sets it as an http-only cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	if !types.ValidRole(user.Role) {
		writeError(w, http.StatusBadRequest, "Unauthorized")
		return
	}

	token, err := auth.Issue(auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, h.secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error logging in")
		return
	}

	if err := h.userService.SetToken(r.Context(), user.ID, &token); err != nil {
		writeError(w, http.StatusBadRequest, "Error logging in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   tokenCookieMaxAge,
		HttpOnly: true,
		Secure:   true,
	})

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "User logged in successfully",
		Data: LoginData{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Role:   user.Role,
			Token:  token,
		},
	})
}

// Logout clears the session of whichever user holds the cookie's token.
// It requires no authentication beyond knowing the cookie value.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusBadRequest, "User not found")
		return
	}

	user, err := h.userService.GetByToken(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "User not found")
		return
	}

	if err := h.userService.SetToken(r.Context(), user.ID, nil); err != nil {
		writeError(w, http.StatusBadRequest, "Error logging out")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User logged out successfully"})
}

func requestToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", errors.New("invalid authorization")
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return "", errors.New("invalid authorization")
		}
		return token, nil
	}

	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", errors.New("missing token")
	}
	return cookie.Value, nil
}
