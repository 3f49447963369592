package api

import (
	"database/sql"
	"net/http"

	"github.com/justinas/alice"
	"github.com/rs/cors"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/notify"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, blobs blob.Store, mailer *notify.Notifier) http.Handler {
	mux := http.NewServeMux()
	svc := lifecycle.NewService(db)

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{Service: svc, Blobs: blobs, Mailer: mailer}
	claimsHandler := &ClaimsHandler{Service: svc}
	adminHandler := &AdminHandler{Service: svc}
	notifyHandler := &NotifyHandler{Mailer: mailer}

	public := alice.New()
	admin := alice.New(AuthMiddleware(jwtSecret, db))

	// Public: browsing, reporting, claiming.
	mux.Handle("GET /api/items", public.ThenFunc(itemsHandler.List))
	mux.Handle("POST /api/items", public.ThenFunc(itemsHandler.Report))
	mux.Handle("GET /api/items/{id}", public.ThenFunc(itemsHandler.Get))
	mux.Handle("POST /api/items/{id}/claims", public.ThenFunc(claimsHandler.Create))
	mux.Handle("POST /api/notify", public.ThenFunc(notifyHandler.Send))

	// Auth.
	mux.Handle("POST /api/auth/login", public.ThenFunc(authHandler.Login))
	mux.Handle("POST /api/auth/logout", admin.ThenFunc(authHandler.Logout))

	// Moderation.
	mux.Handle("GET /api/admin/items", admin.ThenFunc(adminHandler.ListItems))
	mux.Handle("POST /api/admin/items/{id}/status", admin.ThenFunc(adminHandler.UpdateItemStatus))
	mux.Handle("DELETE /api/admin/items/{id}", admin.ThenFunc(adminHandler.DeleteItem))
	mux.Handle("GET /api/admin/claims", admin.ThenFunc(adminHandler.ListClaims))
	mux.Handle("POST /api/admin/claims/{id}/status", admin.ThenFunc(adminHandler.UpdateClaimStatus))
	mux.Handle("GET /api/admin/stats", admin.ThenFunc(adminHandler.Stats))

	// Observability.
	mux.Handle("GET /metrics", metrics.Handler())

	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return alice.New(RecoverMiddleware, metrics.Middleware, LoggingMiddleware, c.Handler).Then(mux)
}
