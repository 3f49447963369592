package api

import (
	"fmt"
	"net/http"

	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/notify"
)

// NotifyHandler exposes the report receipt email as its own endpoint, for
// clients that want to resend a confirmation.
type NotifyHandler struct {
	Mailer *notify.Notifier
}

type notifyRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	ItemTitle string `json:"item_title"`
}

// Send handles POST /api/notify.
func (h *NotifyHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	if req.Email == "" || req.Name == "" || req.ItemTitle == "" {
		jsonError(w, http.StatusBadRequest, kindValidation, "email, name and item_title required")
		return
	}

	if !h.Mailer.Enabled() {
		jsonError(w, http.StatusServiceUnavailable, kindTransient, "email delivery is not configured")
		return
	}

	if err := h.Mailer.SendReportReceipt(r.Context(), req.Email, req.Name, req.ItemTitle); err != nil {
		serviceError(w, fmt.Errorf("sending email: %w: %v", lifecycle.ErrTransient, err))
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "notification sent"})
}
