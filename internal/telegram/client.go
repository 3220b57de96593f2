// ABOUTME: Telegram Bot API client for outbound message delivery
// ABOUTME: Implements the Dispatcher interface consumed by the registration engine

package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrSendFailed wraps any delivery failure reported by the transport. The
// wrapped detail carries Telegram's raw error description.
var ErrSendFailed = errors.New("send failed")

// Dispatcher delivers outbound messages to a chat handle. Failures are not
// retried within the current request; the caller decides whether to surface
// or swallow them.
type Dispatcher interface {
	Send(ctx context.Context, chatHandle, text string) error
}

const defaultBaseURL = "https://api.telegram.org"

// Client is a Telegram Bot API dispatcher. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a dispatcher for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default().With("component", "telegram"),
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers text to a chat handle via the sendMessage method.
func (c *Client) Send(ctx context.Context, chatHandle, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatHandle, Text: text})
	if err != nil {
		return fmt.Errorf("encoding sendMessage request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	// Telegram reports errors both via status code and the ok field; read
	// the body either way for the description.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var api apiResponse
	if err := json.Unmarshal(raw, &api); err != nil || !api.OK {
		detail := api.Description
		if detail == "" {
			detail = strings.TrimSpace(string(raw))
		}
		c.logger.Warn("sendMessage refused", "status", resp.StatusCode, "detail", detail)
		return fmt.Errorf("%w: %s", ErrSendFailed, detail)
	}

	return nil
}
