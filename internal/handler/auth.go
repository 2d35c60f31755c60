package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"pulsefeed/internal/httputil"
	"pulsefeed/internal/model"
	"pulsefeed/internal/service"
	"pulsefeed/internal/transport/http/middleware"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// Signup handles account registration
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if errs := validateSignup(&req); len(errs) > 0 {
		httputil.WriteFieldErrors(w, errs)
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already registered")
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username already taken")
		default:
			httputil.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	token, err := h.authService.IssueToken(user.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to issue token")
		return
	}

	httputil.WriteData(w, http.StatusCreated, model.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}, "Account created successfully")
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Email and password are required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		// Unknown email and wrong password get the same response.
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid email or password")
			return
		}
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	token, err := h.authService.IssueToken(user.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to issue token")
		return
	}

	httputil.WriteData(w, http.StatusOK, model.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}, "Logged in successfully")
}

// Me returns the currently authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	httputil.WriteData(w, http.StatusOK, user, "")
}

// validateSignup applies the registration field rules and collects every
// violation rather than stopping at the first.
func validateSignup(req *model.SignupRequest) []httputil.FieldError {
	var errs []httputil.FieldError

	switch {
	case req.Username == "":
		errs = append(errs, httputil.FieldError{Field: "username", Message: "Username is required"})
	case len(req.Username) < model.MinUsernameLength || len(req.Username) > model.MaxUsernameLength:
		errs = append(errs, httputil.FieldError{Field: "username", Message: "Username must be between 3 and 30 characters"})
	case !usernamePattern.MatchString(req.Username):
		errs = append(errs, httputil.FieldError{Field: "username", Message: "Username may only contain letters, numbers and underscores"})
	}

	if req.Email == "" {
		errs = append(errs, httputil.FieldError{Field: "email", Message: "Email is required"})
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, httputil.FieldError{Field: "email", Message: "Email is not valid"})
	}

	if len(req.Password) < model.MinPasswordLength {
		errs = append(errs, httputil.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}

	return errs
}
