package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/model"
)

// AdminHandler handles the moderation endpoints.
type AdminHandler struct {
	Service *lifecycle.Service
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

// ListItems handles GET /api/admin/items. Unlike the public list it shows
// every status, optionally narrowed by ?status=.
func (h *AdminHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var status model.ItemStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := model.ParseItemStatus(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, kindValidation, err.Error())
			return
		}
		status = parsed
	}

	items, err := h.Service.ListItems(r.Context(), lifecycle.ItemFilter{
		Status:   status,
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// UpdateItemStatus handles POST /api/admin/items/{id}/status.
func (h *AdminHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid item id")
		return
	}

	var req statusChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	target, err := model.ParseItemStatus(req.Status)
	if err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, err.Error())
		return
	}

	item, err := h.Service.TransitionItem(r.Context(), id, target)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/admin/items/{id}. Claims referencing the
// item survive and show up with a placeholder title.
func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid item id")
		return
	}

	if err := h.Service.DeleteItem(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// ListClaims handles GET /api/admin/claims.
func (h *AdminHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	var status model.ClaimStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := model.ParseClaimStatus(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, kindValidation, err.Error())
			return
		}
		status = parsed
	}

	claims, err := h.Service.ListClaims(r.Context(), status)
	if err != nil {
		serviceError(w, err)
		return
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, claims)
}

// UpdateClaimStatus handles POST /api/admin/claims/{id}/status. Approval
// also marks the claimed item, atomically.
func (h *AdminHandler) UpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid claim id")
		return
	}

	var req statusChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	target, err := model.ParseClaimStatus(req.Status)
	if err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, err.Error())
		return
	}

	claim, err := h.Service.TransitionClaim(r.Context(), id, target)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetStats(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
