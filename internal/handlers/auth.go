package handlers

import (
	"net/http"
	"strings"

	"github.com/kmuriuki/matchday/internal/auth"
	"github.com/kmuriuki/matchday/internal/models"
	"github.com/kmuriuki/matchday/internal/session"
)

// defaultRole is the role recorded in tokens and session state. Every
// account can host events and join others'; "host" is a per-event
// relationship, not an account role.
const defaultRole = "user"

// Register handles POST /api/auth/register
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Name = strings.TrimSpace(req.Name)

	if req.Username == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "name, username, and password are required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	// The insert itself does not report a duplicate username distinctly,
	// so this pre-check is the caller-visible constraint signal.
	exists, err := s.Users.UsernameExists(r.Context(), req.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "username already taken")
		return
	}

	user := s.Users.Register(r.Context(), models.User{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	})
	if user == nil {
		respondError(w, http.StatusInternalServerError, "could not create user")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Name, defaultRole, s.Secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not generate token")
		return
	}

	s.Sessions.Begin(session.State{Token: token, UserID: user.ID, Name: user.Name, Role: defaultRole})
	respond(w, http.StatusCreated, models.LoginResponse{Token: token, User: *user})
}

// Login handles POST /api/auth/login
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(strings.ToLower(req.Username))

	user, err := s.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if user == nil {
		// Wrong username or password — absence, not failure.
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Name, defaultRole, s.Secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not generate token")
		return
	}

	s.Sessions.Begin(session.State{Token: token, UserID: user.ID, Name: user.Name, Role: defaultRole})
	respond(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// Logout handles POST /api/auth/logout — clears both the in-memory
// session and its persisted copy.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me — returns the rehydratable session state.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	state, ok := s.Sessions.Current()
	if !ok {
		respondError(w, http.StatusUnauthorized, "no active session")
		return
	}
	respond(w, http.StatusOK, state)
}
