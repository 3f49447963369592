package api

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/notify"
)

// maxUploadBytes bounds the report form, photo included.
const maxUploadBytes = 10 << 20

// ItemsHandler handles the public item endpoints.
type ItemsHandler struct {
	Service *lifecycle.Service
	Blobs   blob.Store
	Mailer  *notify.Notifier
}

// List handles GET /api/items. Only approved items are visible here;
// moderation views live under /api/admin.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(r.Context(), lifecycle.ItemFilter{
		Status:   model.ItemStatusApproved,
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

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid item id")
		return
	}

	item, err := h.Service.GetItem(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Report handles POST /api/items: a multipart found-item report with an
// optional photo. The photo is stored first so a storage outage rejects the
// whole report instead of producing an item with a dead image link.
func (h *ItemsHandler) Report(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, kindValidation, "file too large or invalid multipart form")
		return
	}

	in := lifecycle.ItemInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Location:    r.FormValue("location"),
		DateFound:   r.FormValue("date_found"),
		FinderName:  r.FormValue("finder_name"),
		FinderEmail: r.FormValue("finder_email"),
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()

		photo, err := imaging.Prepare(file)
		if err != nil {
			jsonError(w, http.StatusBadRequest, kindValidation, err.Error())
			return
		}

		key := blob.NewKey(header.Filename)
		url, err := h.Blobs.Put(r.Context(), key, bytes.NewReader(photo.Data), photo.MIME)
		if err != nil {
			serviceError(w, fmt.Errorf("storing photo: %w: %v", lifecycle.ErrTransient, err))
			return
		}
		in.ImageURL = url
	} else if err != http.ErrMissingFile {
		jsonError(w, http.StatusBadRequest, kindValidation, "invalid image upload")
		return
	}

	item, err := h.Service.CreateItem(r.Context(), in)
	if err != nil {
		serviceError(w, err)
		return
	}

	if h.Mailer.Enabled() {
		go h.sendReceipt(item)
	}

	jsonResponse(w, http.StatusCreated, item)
}

// sendReceipt emails the finder a confirmation. Failures are logged and
// counted, never surfaced: the report already went through.
func (h *ItemsHandler) sendReceipt(item *model.Item) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.Mailer.SendReportReceipt(ctx, item.FinderEmail, item.FinderName, item.Title); err != nil {
		slog.Warn("report receipt email failed", "item", item.ID, "error", err)
	}
}
