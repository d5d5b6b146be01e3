package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
	"github.com/akazakov/cookbook/internal/service"
)

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filters repository.RecipeFilters

	if author := q.Get("author"); author != "" {
		id, err := strconv.ParseInt(author, 10, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "author must be an integer")
			return
		}
		filters.AuthorID = &id
	}
	filters.TagSlug = q.Get("tag")
	if limit := q.Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			filters.Limit = v
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			filters.Offset = v
		}
	}

	recipes, err := s.svc.ListRecipes(r.Context(), filters)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	views := make([]models.RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, models.NewRecipeView(recipe))
	}
	s.respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	recipe, err := s.svc.GetRecipe(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, models.NewRecipeView(recipe))
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRecipeInput
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	recipe, err := s.svc.CreateRecipe(r.Context(), currentUser(r), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, models.NewRecipeView(recipe))
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	var req service.UpdateRecipeInput
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	recipe, err := s.svc.UpdateRecipe(r.Context(), currentUser(r), id, req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, models.NewRecipeView(recipe))
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	if err := s.svc.DeleteRecipe(r.Context(), currentUser(r), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

// ---------------------------------------------------------------------------
// Favorites & shopping cart
// ---------------------------------------------------------------------------

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleAddMembership(w, r, s.svc.AddFavorite)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleRemoveMembership(w, r, s.svc.RemoveFavorite)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	s.handleAddMembership(w, r, s.svc.AddToCart)
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	s.handleRemoveMembership(w, r, s.svc.RemoveFromCart)
}

func (s *Server) handleAddMembership(w http.ResponseWriter, r *http.Request,
	add func(context.Context, *models.User, int64) (*models.RecipeSummary, error),
) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	summary, err := add(r.Context(), currentUser(r), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleRemoveMembership(w http.ResponseWriter, r *http.Request,
	remove func(context.Context, *models.User, int64) error,
) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	if err := remove(r.Context(), currentUser(r), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	lines, err := s.svc.ShoppingList(r.Context(), currentUser(r))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	body := RenderShoppingListText(lines)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.WithError(err).Error("failed to write shopping list")
	}
}
