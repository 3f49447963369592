package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/model"
)

type dashboardData struct {
	PageData
	Stats        *lifecycle.Stats
	Items        []model.Item
	Claims       []model.Claim
	StatusFilter string
}

// Dashboard handles GET /admin: moderation queues plus counters.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	stats, err := s.Service.GetStats(r.Context())
	if err != nil {
		slog.Error("failed to load stats", "error", err)
	}

	var statusFilter model.ItemStatus
	raw := r.URL.Query().Get("status")
	if parsed, err := model.ParseItemStatus(raw); err == nil {
		statusFilter = parsed
	}

	items, err := s.Service.ListItems(r.Context(), lifecycle.ItemFilter{Status: statusFilter})
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}
	claimList, err := s.Service.ListClaims(r.Context(), "")
	if err != nil {
		slog.Error("failed to list claims", "error", err)
	}

	s.Templates.Render(w, "admin.html", &dashboardData{
		PageData: PageData{
			Title:   "Admin Dashboard",
			User:    claims,
			Error:   r.URL.Query().Get("error"),
			Success: r.URL.Query().Get("success"),
		},
		Stats:        stats,
		Items:        items,
		Claims:       claimList,
		StatusFilter: string(statusFilter),
	})
}

// ItemStatusSubmit handles POST /admin/items/{id}/status.
func (s *Server) ItemStatusSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	target, err := model.ParseItemStatus(r.FormValue("status"))
	if err != nil {
		redirectDashboard(w, r, "Unknown item status.", "")
		return
	}

	if _, err := s.Service.TransitionItem(r.Context(), id, target); err != nil {
		redirectDashboard(w, r, transitionMessage(err), "")
		return
	}
	redirectDashboard(w, r, "", "Item updated.")
}

// ItemDeleteSubmit handles POST /admin/items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.Service.DeleteItem(r.Context(), id); err != nil {
		redirectDashboard(w, r, transitionMessage(err), "")
		return
	}
	redirectDashboard(w, r, "", "Item deleted.")
}

// ClaimStatusSubmit handles POST /admin/claims/{id}/status.
func (s *Server) ClaimStatusSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	target, err := model.ParseClaimStatus(r.FormValue("status"))
	if err != nil {
		redirectDashboard(w, r, "Unknown claim status.", "")
		return
	}

	if _, err := s.Service.TransitionClaim(r.Context(), id, target); err != nil {
		redirectDashboard(w, r, transitionMessage(err), "")
		return
	}
	redirectDashboard(w, r, "", "Claim updated.")
}

// transitionMessage turns lifecycle errors into messages an administrator
// can act on.
func transitionMessage(err error) string {
	switch {
	case errors.Is(err, lifecycle.ErrItemDeleted):
		return "The claimed item has been deleted, so the claim cannot be approved."
	case errors.Is(err, lifecycle.ErrItemUnavailable):
		return "The item is no longer available. Another claim may have been approved first."
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return "That status change is not allowed from the current status."
	case errors.Is(err, lifecycle.ErrNotFound):
		return "The entry no longer exists."
	default:
		slog.Error("moderation action failed", "error", err)
		return "Something went wrong, try again."
	}
}

func redirectDashboard(w http.ResponseWriter, r *http.Request, errMsg, successMsg string) {
	q := url.Values{}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	if successMsg != "" {
		q.Set("success", successMsg)
	}
	target := "/admin"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
