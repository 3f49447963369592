package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/lifecycle"
)

// ClaimsHandler handles the public claim endpoints.
type ClaimsHandler struct {
	Service *lifecycle.Service
}

type createClaimRequest struct {
	ClaimantName  string `json:"claimant_name"`
	ClaimantEmail string `json:"claimant_email"`
	ClaimantPhone string `json:"claimant_phone"`
	Description   string `json:"description"`
}

// Create handles POST /api/items/{id}/claims.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid item id")
		return
	}

	var req createClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	claim, err := h.Service.CreateClaim(r.Context(), itemID, lifecycle.ClaimInput{
		ClaimantName:  req.ClaimantName,
		ClaimantEmail: req.ClaimantEmail,
		ClaimantPhone: req.ClaimantPhone,
		Description:   req.Description,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, claim)
}
