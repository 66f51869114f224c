package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopcore/backend/internal/auth"
	"github.com/shopcore/backend/internal/model"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User    model.PublicUser `json:"user"`
	Message string           `json:"message"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	user, pair, err := s.auth.Signup(r.Context(), auth.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		writeMessage(w, http.StatusBadRequest, "User already exists")
		return
	case err != nil:
		s.log.Error("signup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.cookies.Emit(w, pair.Access, pair.Refresh)
	writeJSON(w, http.StatusCreated, authResponse{User: user.Public(), Message: "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	user, pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		s.log.Error("login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.cookies.Emit(w, pair.Access, pair.Refresh)
	writeJSON(w, http.StatusOK, authResponse{User: user.Public(), Message: "Logged in successfully"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), s.cookies.ReadRefresh(r)); err != nil {
		s.log.Error("logout failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.cookies.Clear(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := s.cookies.ReadRefresh(r)
	if refreshToken == "" {
		writeMessage(w, http.StatusUnauthorized, "No refresh token provided")
		return
	}

	access, err := s.auth.Refresh(r.Context(), refreshToken)
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	case err != nil:
		s.log.Error("refresh failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.cookies.EmitAccess(w, access)
	writeMessage(w, http.StatusOK, "Token refreshed successfully")
}

// handleProfile returns the authenticated user.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation failed"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	default:
		return "Validation failed"
	}
}
