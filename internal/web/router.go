package web

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/notify"
	webembed "github.com/erazemk/najdeno/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string, blobs blob.Store, mailer *notify.Notifier) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
		Service:   lifecycle.NewService(db),
		Blobs:     blobs,
		Mailer:    mailer,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Locally stored item photos. With the S3 driver the image URLs point at
	// the bucket and this route simply never matches anything.
	if fsStore, ok := blobs.(*blob.Filesystem); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(fsStore.Dir()))))
	}

	// Public routes.
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /report", s.ReportPage)
	mux.HandleFunc("POST /report", s.ReportSubmit)
	mux.HandleFunc("GET /items/{id}/claim", s.ClaimPage)
	mux.HandleFunc("POST /items/{id}/claim", s.ClaimSubmit)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Moderation.
	mux.Handle("GET /admin", cookieAuth(http.HandlerFunc(s.Dashboard)))
	mux.Handle("POST /admin/items/{id}/status", cookieAuth(http.HandlerFunc(s.ItemStatusSubmit)))
	mux.Handle("POST /admin/items/{id}/delete", cookieAuth(http.HandlerFunc(s.ItemDeleteSubmit)))
	mux.Handle("POST /admin/claims/{id}/status", cookieAuth(http.HandlerFunc(s.ClaimStatusSubmit)))

	return mux, nil
}
