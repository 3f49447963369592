package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/lifecycle"
	"github.com/erazemk/najdeno/internal/model"
)

const maxUploadBytes = 10 << 20

type browseData struct {
	PageData
	Items    []model.Item
	Query    string
	Category string
}

// Index handles GET /: the public list of approved items with search and
// category filtering.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	items, err := s.Service.ListItems(r.Context(), lifecycle.ItemFilter{
		Status:   model.ItemStatusApproved,
		Query:    query,
		Category: category,
	})
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	s.Templates.Render(w, "index.html", &browseData{
		PageData: PageData{Title: "Lost & Found"},
		Items:    items,
		Query:    query,
		Category: category,
	})
}

type reportData struct {
	PageData
	Form map[string]string
}

// ReportPage handles GET /report.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "report.html", &reportData{
		PageData: PageData{Title: "Report a Found Item"},
		Form:     map[string]string{},
	})
}

// ReportSubmit handles POST /report.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.renderReportError(w, r, "The photo is too large (10 MB max).")
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
			s.renderReportError(w, r, "The photo could not be read. Upload a JPEG or PNG.")
			return
		}

		url, err := s.Blobs.Put(r.Context(), blob.NewKey(header.Filename), bytes.NewReader(photo.Data), photo.MIME)
		if err != nil {
			slog.Error("failed to store photo", "error", err)
			s.renderReportError(w, r, "Photo storage is temporarily unavailable, try again in a moment.")
			return
		}
		in.ImageURL = url
	} else if err != http.ErrMissingFile {
		s.renderReportError(w, r, "The photo upload was invalid.")
		return
	}

	item, err := s.Service.CreateItem(r.Context(), in)
	if err != nil {
		var ve *lifecycle.ValidationError
		if errors.As(err, &ve) {
			s.renderReportError(w, r, "Fill in all required fields ("+ve.Error()+").")
			return
		}
		slog.Error("failed to create report", "error", err)
		s.renderReportError(w, r, "Something went wrong, try again.")
		return
	}

	if s.Mailer.Enabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.Mailer.SendReportReceipt(ctx, item.FinderEmail, item.FinderName, item.Title); err != nil {
				slog.Warn("report receipt email failed", "item", item.ID, "error", err)
			}
		}()
	}

	s.Templates.Render(w, "report.html", &reportData{
		PageData: PageData{
			Title:   "Report a Found Item",
			Success: "Thanks! Your report was submitted and is waiting for review.",
		},
		Form: map[string]string{},
	})
}

func (s *Server) renderReportError(w http.ResponseWriter, r *http.Request, msg string) {
	s.Templates.Render(w, "report.html", &reportData{
		PageData: PageData{Title: "Report a Found Item", Error: msg},
		Form: map[string]string{
			"title":        r.FormValue("title"),
			"description":  r.FormValue("description"),
			"category":     r.FormValue("category"),
			"location":     r.FormValue("location"),
			"date_found":   r.FormValue("date_found"),
			"finder_name":  r.FormValue("finder_name"),
			"finder_email": r.FormValue("finder_email"),
		},
	})
}

type claimData struct {
	PageData
	Item *model.Item
}

// ClaimPage handles GET /items/{id}/claim.
func (s *Server) ClaimPage(w http.ResponseWriter, r *http.Request) {
	item, ok := s.claimItem(w, r)
	if !ok {
		return
	}
	s.Templates.Render(w, "claim.html", &claimData{
		PageData: PageData{Title: "Claim This Item"},
		Item:     item,
	})
}

// ClaimSubmit handles POST /items/{id}/claim.
func (s *Server) ClaimSubmit(w http.ResponseWriter, r *http.Request) {
	item, ok := s.claimItem(w, r)
	if !ok {
		return
	}

	_, err := s.Service.CreateClaim(r.Context(), item.ID, lifecycle.ClaimInput{
		ClaimantName:  r.FormValue("claimant_name"),
		ClaimantEmail: r.FormValue("claimant_email"),
		ClaimantPhone: r.FormValue("claimant_phone"),
		Description:   r.FormValue("description"),
	})
	if err != nil {
		msg := "Something went wrong, try again."
		var ve *lifecycle.ValidationError
		if errors.As(err, &ve) {
			msg = "Fill in all required fields (" + ve.Error() + ")."
		} else {
			slog.Error("failed to create claim", "item", item.ID, "error", err)
		}
		s.Templates.Render(w, "claim.html", &claimData{
			PageData: PageData{Title: "Claim This Item", Error: msg},
			Item:     item,
		})
		return
	}

	s.Templates.Render(w, "claim.html", &claimData{
		PageData: PageData{
			Title:   "Claim This Item",
			Success: "Your claim was submitted. The administrator will contact you by email.",
		},
		Item: item,
	})
}

// claimItem loads the item a claim page refers to, writing the error
// response itself when the item is gone.
func (s *Server) claimItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	item, err := s.Service.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, lifecycle.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			slog.Error("failed to load item", "item", id, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return item, true
}
