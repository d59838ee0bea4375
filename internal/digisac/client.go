// Package digisac sends outbound WhatsApp messages through the Digisac HTTP API.
package digisac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

// RecipientMode selects how the recipient string is interpreted.
type RecipientMode string

const (
	// ModePhone treats the recipient as a phone number.
	ModePhone RecipientMode = "phone"
	// ModeContact treats the recipient as a Digisac contact id.
	ModeContact RecipientMode = "contact"
)

const messagesPath = "/api/v1/messages"

// Config carries the Digisac connection settings.
type Config struct {
	BaseURL       string
	Token         string
	ServiceID     string
	RecipientMode RecipientMode
	// Timeout bounds each HTTP call; zero leaves the http.Client default.
	Timeout time.Duration
}

// SendOptions overrides per-call behaviour.
type SendOptions struct {
	Mode RecipientMode
}

// Client wraps Digisac message delivery.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a client. A nil httpClient gets a fresh one honouring cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.RecipientMode == "" {
		cfg.RecipientMode = ModePhone
	}
	return &Client{cfg: cfg, http: httpClient}
}

type messageBody struct {
	Text      string `json:"text"`
	ServiceID string `json:"serviceId,omitempty"`
	Number    string `json:"number,omitempty"`
	ContactID string `json:"contactId,omitempty"`
}

// Send delivers text to recipient and returns the raw upstream response body.
func (c *Client) Send(ctx context.Context, recipient, text string, opts SendOptions) (json.RawMessage, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	mode := opts.Mode
	if mode == "" {
		mode = c.cfg.RecipientMode
	}

	body := messageBody{Text: strings.TrimSpace(text)}
	switch mode {
	case ModeContact:
		body.ContactID = strings.TrimSpace(recipient)
		if body.ContactID == "" {
			return nil, httpx.Validation("contactId é obrigatório")
		}
	case ModePhone:
		body.Number = NormalizePhone(recipient)
		body.ServiceID = c.cfg.ServiceID
		if body.Number == "" {
			return nil, httpx.Validation("número inválido")
		}
	default:
		return nil, httpx.Validation("modo de destinatário desconhecido: %s", mode)
	}
	if body.Text == "" {
		return nil, httpx.Validation("texto é obrigatório")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + messagesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("digisac request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("digisac send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("digisac read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpx.RemoteError{Status: resp.StatusCode, Body: string(data)}
	}
	if len(bytes.TrimSpace(data)) == 0 || !json.Valid(data) {
		quoted, _ := json.Marshal(string(data))
		return quoted, nil
	}
	return data, nil
}

// Ready reports a configuration error naming every unset Digisac setting.
func (c *Client) Ready() error {
	var missing []string
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		missing = append(missing, "DIGISAC_BASE_URL")
	}
	if strings.TrimSpace(c.cfg.Token) == "" {
		missing = append(missing, "DIGISAC_TOKEN")
	}
	if strings.TrimSpace(c.cfg.ServiceID) == "" {
		missing = append(missing, "DIGISAC_SERVICE_ID")
	}
	if len(missing) > 0 {
		return httpx.MissingConfiguration(missing...)
	}
	return nil
}
