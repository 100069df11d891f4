package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/maplefay/homeplate/internal/handler"
	"github.com/maplefay/homeplate/internal/membership"
	"github.com/maplefay/homeplate/internal/middleware"
	"github.com/maplefay/homeplate/internal/store"
	ws "github.com/maplefay/homeplate/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	authH          *handler.AuthHandler
	householdH     *handler.HouseholdHandler
	mealH          *handler.MealHandler
	groceryH       *handler.GroceryHandler
	preferenceH    *handler.PreferenceHandler
	sessionStore   *store.SessionStore
	householdStore *store.HouseholdStore
	rateLimiter    *middleware.RateLimiter
	logger         *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	householdStore := store.NewHouseholdStore(db)
	invitationStore := store.NewInvitationStore(db)
	mealStore := store.NewMealStore(db)
	groceryStore := store.NewGroceryStore(db)
	preferenceStore := store.NewPreferenceStore(db)

	svc := membership.NewService(db, logger.With("component", "membership"))

	return &Server{
		db:             db,
		hub:            hub,
		authH:          handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		householdH:     handler.NewHouseholdHandler(svc, householdStore, invitationStore, hub, logger.With("component", "household")),
		mealH:          handler.NewMealHandler(mealStore, hub, logger.With("component", "meal")),
		groceryH:       handler.NewGroceryHandler(groceryStore, hub, logger.With("component", "grocery")),
		preferenceH:    handler.NewPreferenceHandler(preferenceStore, hub, logger.With("component", "preference")),
		sessionStore:   sessionStore,
		householdStore: householdStore,
		rateLimiter:    middleware.NewRateLimiter(),
		logger:         logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	requireAuth := middleware.RequireAuth(s.sessionStore, s.householdStore)
	byIP := func(limit int, window time.Duration) func(http.Handler) http.Handler {
		return middleware.RateLimit(s.rateLimiter, middleware.RealIP, limit, window)
	}

	outerMux := http.NewServeMux()
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("POST /register", byIP(10, time.Minute)(http.HandlerFunc(s.authH.Register)))
	outerMux.Handle("POST /login", byIP(10, time.Minute)(http.HandlerFunc(s.authH.Login)))

	// Everything below requires a session.
	mux := http.NewServeMux()
	mux.HandleFunc("POST /logout", s.authH.Logout)

	mux.HandleFunc("GET /api/household", s.householdH.Get)
	mux.HandleFunc("POST /api/household", s.householdH.Create)
	mux.HandleFunc("POST /api/household/leave", s.householdH.Leave)
	// Join codes are guessable by brute force, so the join endpoint is
	// rate-limited even though it sits behind auth.
	mux.Handle("POST /api/join/{token}", byIP(15, time.Minute)(http.HandlerFunc(s.householdH.Join)))

	// Household-scoped routes.
	scoped := http.NewServeMux()
	scoped.HandleFunc("PUT /api/household", s.householdH.Update)
	scoped.HandleFunc("POST /api/household/invites", s.householdH.Invite)
	scoped.HandleFunc("GET /api/household/invites", s.householdH.ListInvites)

	scoped.HandleFunc("POST /api/meals", s.mealH.Create)
	scoped.HandleFunc("GET /api/meals", s.mealH.List)
	scoped.HandleFunc("PUT /api/meals/{id}", s.mealH.Update)
	scoped.HandleFunc("DELETE /api/meals/{id}", s.mealH.Delete)

	scoped.HandleFunc("POST /api/groceries", s.groceryH.Create)
	scoped.HandleFunc("GET /api/groceries", s.groceryH.List)
	scoped.HandleFunc("PUT /api/groceries/{id}/checked", s.groceryH.SetChecked)
	scoped.HandleFunc("DELETE /api/groceries/{id}", s.groceryH.Delete)

	scoped.HandleFunc("GET /api/preferences", s.preferenceH.List)
	scoped.HandleFunc("PUT /api/preferences", s.preferenceH.Set)
	scoped.HandleFunc("GET /api/cuisine-weights", s.preferenceH.ListCuisineWeights)
	scoped.HandleFunc("PUT /api/cuisine-weights", s.preferenceH.SetCuisineWeight)
	scoped.HandleFunc("GET /api/disabled-items", s.preferenceH.ListDisabledItems)
	scoped.HandleFunc("POST /api/disabled-items", s.preferenceH.DisableItem)
	scoped.HandleFunc("DELETE /api/disabled-items", s.preferenceH.EnableItem)

	scoped.Handle("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	mux.Handle("/", middleware.RequireHousehold(scoped))
	outerMux.Handle("/", requireAuth(mux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		http.Error(w, "db unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
