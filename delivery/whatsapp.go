// Package delivery hands compiled messages to the WhatsApp emulator.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("whatsapp emulator url not configured")

// WhatsApp sends text through an emulator that accepts
// GET <base>?phone=&text=&apikey=.
type WhatsApp struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewWhatsApp(baseURL, apiKey string) *WhatsApp {
	return &WhatsApp{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (w *WhatsApp) Send(ctx context.Context, phone, text string) error {
	if w.BaseURL == "" {
		return ErrNotConfigured
	}

	u, err := url.Parse(w.BaseURL)
	if err != nil {
		return fmt.Errorf("parse emulator url: %w", err)
	}
	q := u.Query()
	q.Set("phone", strings.TrimPrefix(strings.TrimSpace(phone), "+"))
	q.Set("text", text)
	if w.APIKey != "" {
		q.Set("apikey", w.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send to %s: %w", phone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send to %s: status %d: %s", phone, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
