package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/akazakov/cookbook/internal/metrics"
	"github.com/akazakov/cookbook/internal/service"
)

// Server provides the HTTP API.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	tokens *TokenManager
	ready  *atomic.Bool
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, tokens *TokenManager, ready *atomic.Bool) *Server {
	s := &Server{svc: svc, logger: logger, tokens: tokens, ready: ready, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return metrics.Middleware(s.mux)
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// API – Users & auth
	s.mux.HandleFunc("POST /api/users", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/token", s.handleLogin)
	s.mux.HandleFunc("GET /api/users/me", s.requireAuth(s.handleMe))
	s.mux.HandleFunc("POST /api/users/set_password", s.requireAuth(s.handleSetPassword))
	s.mux.HandleFunc("POST /api/users/{id}/subscribe", s.requireAuth(s.handleSubscribe))
	s.mux.HandleFunc("DELETE /api/users/{id}/subscribe", s.requireAuth(s.handleUnsubscribe))
	s.mux.HandleFunc("GET /api/users/subscriptions", s.requireAuth(s.handleSubscriptions))

	// API – Catalogs
	s.mux.HandleFunc("GET /api/tags", s.handleGetTags)
	s.mux.HandleFunc("GET /api/tags/{id}", s.handleGetTag)
	s.mux.HandleFunc("GET /api/ingredients", s.handleSearchIngredients)
	s.mux.HandleFunc("GET /api/ingredients/{id}", s.handleGetIngredient)

	// API – Recipes
	s.mux.HandleFunc("GET /api/recipes", s.handleListRecipes)
	s.mux.HandleFunc("GET /api/recipes/{id}", s.handleGetRecipe)
	s.mux.HandleFunc("POST /api/recipes", s.requireAuth(s.handleCreateRecipe))
	s.mux.HandleFunc("PATCH /api/recipes/{id}", s.requireAuth(s.handleUpdateRecipe))
	s.mux.HandleFunc("DELETE /api/recipes/{id}", s.requireAuth(s.handleDeleteRecipe))

	// API – Favorites & shopping cart
	s.mux.HandleFunc("POST /api/recipes/{id}/favorite", s.requireAuth(s.handleAddFavorite))
	s.mux.HandleFunc("DELETE /api/recipes/{id}/favorite", s.requireAuth(s.handleRemoveFavorite))
	s.mux.HandleFunc("POST /api/recipes/{id}/shopping_cart", s.requireAuth(s.handleAddToCart))
	s.mux.HandleFunc("DELETE /api/recipes/{id}/shopping_cart", s.requireAuth(s.handleRemoveFromCart))
	s.mux.HandleFunc("GET /api/recipes/download_shopping_cart", s.requireAuth(s.handleDownloadShoppingCart))

	// Operational endpoints
	s.mux.Handle("GET /metrics", metrics.Handler())
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and returns an error message on
// failure. The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil && !s.ready.Load() {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
