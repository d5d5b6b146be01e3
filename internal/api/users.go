package api

import (
	"net/http"

	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := s.svc.Register(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, models.NewUserView(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := s.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Login failures always read as 401, not 403.
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		s.respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"auth_token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, models.NewUserView(currentUser(r)))
}

func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.ChangePassword(r.Context(), currentUser(r), req.CurrentPassword, req.NewPassword); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "password successfully changed"})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.svc.Subscribe(r.Context(), currentUser(r), authorID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.svc.Unsubscribe(r.Context(), currentUser(r), authorID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.ListSubscriptions(r.Context(), currentUser(r))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, views)
}
