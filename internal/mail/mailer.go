// Package mail sends transactional email through a Resend-compatible
// HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// Attachment is a file attached to an outgoing message. Content is the
// raw bytes; encoding happens on the wire.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outgoing email.
type Message struct {
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers messages. The zero-value implementation is the HTTP
// client below; tests substitute fakes.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

// NewClient builds a mailer against the given API. from is the sender
// identity, e.g. `Lumix <onboarding@resend.dev>`.
func NewClient(baseURL, apiKey, from string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns a process-wide client configured from RESEND_API_KEY,
// RESEND_FROM and RESEND_BASE_URL. Built once; later env changes are
// not picked up.
func Default() *Client {
	defaultOnce.Do(func() {
		from := os.Getenv("RESEND_FROM")
		if from == "" {
			from = "Lumix <onboarding@resend.dev>"
		}
		defaultClient = NewClient(os.Getenv("RESEND_BASE_URL"), os.Getenv("RESEND_API_KEY"), from)
	})
	return defaultClient
}

type wireAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type wireMessage struct {
	From        string           `json:"from"`
	To          []string         `json:"to"`
	Subject     string           `json:"subject"`
	Text        string           `json:"text,omitempty"`
	HTML        string           `json:"html,omitempty"`
	Attachments []wireAttachment `json:"attachments,omitempty"`
}

type wireError struct {
	Message string `json:"message"`
}

// Send posts the message and fails on any non-2xx response. The API's
// error message is surfaced when the response body carries one.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return fmt.Errorf("missing RESEND_API_KEY")
	}

	wire := wireMessage{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
	for _, att := range msg.Attachments {
		wire.Attachments = append(wire.Attachments, wireAttachment{
			Filename: att.Filename,
			Content:  base64.StdEncoding.EncodeToString(att.Content),
		})
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr wireError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("email provider rejected message (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("email provider rejected message (status %d)", resp.StatusCode)
	}
	return nil
}
