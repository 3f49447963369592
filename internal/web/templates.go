package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/notify"
	webembed "github.com/erazemk/najdeno/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"categories": func() []string { return model.Categories },
		"itemStatusName": func(status model.ItemStatus) string {
			switch status {
			case model.ItemStatusPending:
				return "Pending review"
			case model.ItemStatusApproved:
				return "Available"
			case model.ItemStatusClaimed:
				return "Claimed"
			case model.ItemStatusRejected:
				return "Rejected"
			default:
				return string(status)
			}
		},
		"claimStatusName": func(status model.ClaimStatus) string {
			switch status {
			case model.ClaimStatusPending:
				return "Pending"
			case model.ClaimStatusApproved:
				return "Approved"
			case model.ClaimStatusRejected:
				return "Rejected"
			default:
				return string(status)
			}
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"index.html",
		"report.html",
		"claim.html",
		"login.html",
		"admin.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Claims
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	JWTSecret string
	Service   *lifecycle.Service
	Blobs     blob.Store
	Mailer    *notify.Notifier
}
