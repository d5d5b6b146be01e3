package api

import (
	"net/http"
	"strconv"

	"github.com/akazakov/cookbook/internal/models"
)

func (s *Server) handleGetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.ListTags(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	s.respondJSON(w, http.StatusOK, tags)
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	tag, err := s.svc.GetTag(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tag)
}

func (s *Server) handleSearchIngredients(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("name")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	ingredients, err := s.svc.SearchIngredients(r.Context(), prefix, limit)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if ingredients == nil {
		ingredients = []*models.Ingredient{}
	}
	s.respondJSON(w, http.StatusOK, ingredients)
}

func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid ingredient id")
		return
	}

	ingredient, err := s.svc.GetIngredient(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, ingredient)
}
