package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client отправляет сообщения через HTTP API шлюза WhatsApp.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// NewClient создаёт клиент API. Таймаут запроса задаётся контекстом вызова.
func NewClient(apiURL, token string) *Client {
	return &Client{
		apiURL:     apiURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send публикует сообщение методом POST. Любой ответ кроме 2xx — ошибка.
func (c *Client) Send(ctx context.Context, number, message string) error {
	const op = "whatsapp.Client.Send"

	to := digits(number)
	if to == "" {
		return fmt.Errorf("%s: invalid phone number %q", op, number)
	}
	body, err := json.Marshal(sendRequest{To: to, Body: message})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}
