package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/metrics"
)

// DefaultBaseURL is the Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// DefaultFrom is used when no sender address is configured.
const DefaultFrom = "Lost & Found <onboarding@resend.dev>"

// Notifier sends transactional email through the Resend HTTP API. With an
// empty API key it is disabled and every send is a silent no-op, so local
// setups work without an account.
type Notifier struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

// New constructs a Notifier. An empty apiKey disables sending.
func New(apiKey, from string) *Notifier {
	if from == "" {
		from = DefaultFrom
	}
	return &Notifier{
		apiKey:  apiKey,
		from:    from,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (n *Notifier) Enabled() bool {
	return n.apiKey != ""
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendReportReceipt thanks a finder for reporting an item. Failures are for
// the caller to log; item creation must never fail because of email.
func (n *Notifier) SendReportReceipt(ctx context.Context, email, name, itemTitle string) error {
	err := n.send(ctx, email, "Thank You for Reporting a Found Item!", receiptHTML(name, itemTitle))
	metrics.RecordNotification(err)
	return err
}

func (n *Notifier) send(ctx context.Context, to, subject, html string) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(sendRequest{
		From:    n.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("encoding email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email provider returned %d", resp.StatusCode)
	}
	return nil
}

func receiptHTML(name, itemTitle string) string {
	name = html.EscapeString(name)
	itemTitle = html.EscapeString(itemTitle)
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #3b82f6;">Thank You, %s!</h2>
  <p>We appreciate you taking the time to report <strong>%s</strong> to our Lost &amp; Found system.</p>
  <p>Your contribution helps reunite lost items with their owners and strengthens our community.</p>
  <p>An admin will review your submission shortly. Once approved, it will be visible to students looking for their lost items.</p>
  <br>
  <p style="color: #6b7280;">Best regards,<br>Lost &amp; Found Team</p>
</div>`, name, itemTitle)
}
