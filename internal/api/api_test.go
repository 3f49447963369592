package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/notify"
	"github.com/erazemk/najdeno/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)

	blobs, err := blob.NewFilesystem(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	router := NewRouter(database, testJWTSecret, blobs, notify.New("", ""))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", string(hash))

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// reportForm builds a multipart found-item report, optionally with a photo.
func reportForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if withImage {
		part, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for i := range img.Pix {
			img.Pix[i] = 0xff
		}
		img.Set(0, 0, color.Black)
		if err := png.Encode(part, img); err != nil {
			t.Fatal(err)
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func validReport() map[string]string {
	return map[string]string{
		"title":        "Blue Backpack",
		"description":  "Found near the gym",
		"category":     "Accessories",
		"location":     "Gym",
		"date_found":   "2026-02-10",
		"finder_name":  "Ana",
		"finder_email": "ana@example.com",
	}
}

// reportItem submits a report and returns the created item.
func reportItem(t *testing.T, server *httptest.Server) model.Item {
	t.Helper()
	body, contentType := reportForm(t, validReport(), false)
	resp, err := http.Post(server.URL+"/api/items", contentType, body)
	if err != nil {
		t.Fatalf("report request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	return item
}

// approveItem moves an item to approved through the admin API.
func approveItem(t *testing.T, server *httptest.Server, token string, id int64) {
	t.Helper()
	req, _ := authRequest("POST", fmt.Sprintf("%s/api/admin/items/%d/status", server.URL, id), token,
		map[string]string{"status": "approved"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("approve request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func errorKind(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body["kind"]
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The same token must no longer work.
	req, _ = authRequest("GET", server.URL+"/api/admin/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/admin/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestReportAndModerationFlow(t *testing.T) {
	server, token := setupTestServer(t)

	item := reportItem(t, server)
	if item.Status != model.ItemStatusPending {
		t.Errorf("new report status = %s, want pending", item.Status)
	}

	// Pending reports stay off the public list.
	resp, _ := http.Get(server.URL + "/api/items")
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("public list shows %d items before approval", len(items))
	}

	approveItem(t, server, token, item.ID)

	resp, _ = http.Get(server.URL + "/api/items")
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Fatalf("public list shows %d items after approval, want 1", len(items))
	}
	if items[0].Status != model.ItemStatusApproved {
		t.Errorf("listed status = %s", items[0].Status)
	}
}

func TestReportValidationError(t *testing.T) {
	server, _ := setupTestServer(t)

	fields := validReport()
	delete(fields, "title")
	delete(fields, "finder_email")
	body, contentType := reportForm(t, fields, false)

	resp, err := http.Post(server.URL+"/api/items", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != "validation" {
		t.Errorf("kind = %q, want validation", kind)
	}
}

func TestReportWithPhoto(t *testing.T) {
	server, _ := setupTestServer(t)

	body, contentType := reportForm(t, validReport(), true)
	resp, err := http.Post(server.URL+"/api/items", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	if !strings.HasPrefix(item.ImageURL, "/uploads/items/") {
		t.Errorf("image URL = %q", item.ImageURL)
	}
}

func TestPublicListFilters(t *testing.T) {
	server, token := setupTestServer(t)

	item := reportItem(t, server)
	approveItem(t, server, token, item.ID)

	resp, _ := http.Get(server.URL + "/api/items?q=backpack")
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Errorf("query filter matched %d items, want 1", len(items))
	}

	resp, _ = http.Get(server.URL + "/api/items?category=" + url.QueryEscape("Sports Equipment"))
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("category filter matched %d items, want 0", len(items))
	}
}

func TestInvalidTransitionKind(t *testing.T) {
	server, token := setupTestServer(t)

	item := reportItem(t, server)

	// pending -> claimed has no edge.
	req, _ := authRequest("POST", fmt.Sprintf("%s/api/admin/items/%d/status", server.URL, item.ID), token,
		map[string]string{"status": "claimed"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != "invalid_transition" {
		t.Errorf("kind = %q, want invalid_transition", kind)
	}
}

func TestClaimFlow(t *testing.T) {
	server, token := setupTestServer(t)

	item := reportItem(t, server)
	approveItem(t, server, token, item.ID)

	// Submit a claim.
	claimBody, _ := json.Marshal(map[string]string{
		"claimant_name":  "Bor",
		"claimant_email": "bor@example.com",
		"description":    "It has my initials on the strap",
	})
	resp, _ := http.Post(fmt.Sprintf("%s/api/items/%d/claims", server.URL, item.ID),
		"application/json", bytes.NewReader(claimBody))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("claim create: expected 201, got %d", resp.StatusCode)
	}
	var claim model.Claim
	json.NewDecoder(resp.Body).Decode(&claim)
	resp.Body.Close()

	// Approve it; the item must cascade to claimed.
	req, _ := authRequest("POST", fmt.Sprintf("%s/api/admin/claims/%d/status", server.URL, claim.ID), token,
		map[string]string{"status": "approved"})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim approve: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(fmt.Sprintf("%s/api/items/%d", server.URL, item.ID))
	var got model.Item
	json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if got.Status != model.ItemStatusClaimed {
		t.Errorf("item status after claim approval = %s, want claimed", got.Status)
	}
}

func TestSecondClaimApprovalConflicts(t *testing.T) {
	server, token := setupTestServer(t)

	item := reportItem(t, server)
	approveItem(t, server, token, item.ID)

	var claims [2]model.Claim
	for i := range claims {
		body, _ := json.Marshal(map[string]string{
			"claimant_name":  fmt.Sprintf("Claimant %d", i),
			"claimant_email": fmt.Sprintf("c%d@example.com", i),
			"description":    "mine",
		})
		resp, _ := http.Post(fmt.Sprintf("%s/api/items/%d/claims", server.URL, item.ID),
			"application/json", bytes.NewReader(body))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("claim create: expected 201, got %d", resp.StatusCode)
		}
		json.NewDecoder(resp.Body).Decode(&claims[i])
		resp.Body.Close()
	}

	req, _ := authRequest("POST", fmt.Sprintf("%s/api/admin/claims/%d/status", server.URL, claims[0].ID), token,
		map[string]string{"status": "approved"})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first approval: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("POST", fmt.Sprintf("%s/api/admin/claims/%d/status", server.URL, claims[1].ID), token,
		map[string]string{"status": "approved"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second approval: expected 409, got %d", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != "conflict" {
		t.Errorf("kind = %q, want conflict", kind)
	}
}

func TestDeleteItemOrphansClaims(t *testing.T) {
	server, token := setupTestServer(t)

	item := reportItem(t, server)
	approveItem(t, server, token, item.ID)

	body, _ := json.Marshal(map[string]string{
		"claimant_name":  "Bor",
		"claimant_email": "bor@example.com",
		"description":    "mine",
	})
	resp, _ := http.Post(fmt.Sprintf("%s/api/items/%d/claims", server.URL, item.ID),
		"application/json", bytes.NewReader(body))
	resp.Body.Close()

	req, _ := authRequest("DELETE", fmt.Sprintf("%s/api/admin/items/%d", server.URL, item.ID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/admin/claims", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var claims []model.Claim
	json.NewDecoder(resp.Body).Decode(&claims)
	resp.Body.Close()
	if len(claims) != 1 {
		t.Fatalf("expected 1 orphaned claim, got %d", len(claims))
	}
	if claims[0].ItemTitle != model.UnknownItemTitle {
		t.Errorf("orphan title = %q, want %q", claims[0].ItemTitle, model.UnknownItemTitle)
	}
}

func TestAdminStats(t *testing.T) {
	server, token := setupTestServer(t)

	item := reportItem(t, server)
	reportItem(t, server)
	approveItem(t, server, token, item.ID)

	req, _ := authRequest("GET", server.URL+"/api/admin/stats", token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stats struct {
		TotalItems    int            `json:"total_items"`
		ItemsByStatus map[string]int `json:"items_by_status"`
	}
	json.NewDecoder(resp.Body).Decode(&stats)
	if stats.TotalItems != 2 {
		t.Errorf("total items = %d, want 2", stats.TotalItems)
	}
	if stats.ItemsByStatus["pending"] != 1 || stats.ItemsByStatus["approved"] != 1 {
		t.Errorf("items by status = %v", stats.ItemsByStatus)
	}
}

func TestNotFoundKind(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items/9999")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if kind := errorKind(t, resp); kind != "not_found" {
		t.Errorf("kind = %q, want not_found", kind)
	}
}
