// Package telegram implements the messaging transport against the Telegram
// Bot API: a Messenger for outbound traffic and a long-polling update source.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/drilldown/pkg/domain"
)

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// notModified is the Bot API description for an edit that changes nothing.
const notModified = "message is not modified"

// Client implements ports.Messenger over the Telegram Bot API.
type Client struct {
	httpc *http.Client
	base  string
	token string
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Tests point it at a local server.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.base = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// NewClient creates a Bot API client for the given token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		httpc: &http.Client{Timeout: 45 * time.Second},
		base:  DefaultBaseURL,
		token: token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

// markup converts a grid of labels into an inline keyboard whose buttons
// echo their label as the callback payload.
func markup(grid domain.Grid) *inlineMarkup {
	if grid == nil {
		return nil
	}
	rows := make([][]inlineButton, len(grid))
	for i, row := range grid {
		rows[i] = make([]inlineButton, len(row))
		for j, label := range row {
			rows[i][j] = inlineButton{Text: label, CallbackData: label}
		}
	}
	return &inlineMarkup{InlineKeyboard: rows}
}

// SendMessage delivers text to a chat, optionally with an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard domain.Grid) (int, error) {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if kb := markup(keyboard); kb != nil {
		payload["reply_markup"] = kb
	}
	result, err := c.call(ctx, "sendMessage", payload)
	if err != nil {
		return 0, err
	}
	var msg struct {
		MessageID int `json:"message_id"`
	}
	if err := json.Unmarshal(result, &msg); err != nil {
		return 0, fmt.Errorf("telegram sendMessage: decode result: %w", err)
	}
	return msg.MessageID, nil
}

// EditMessage replaces an existing message's text and keyboard. An edit that
// the API rejects as unchanged maps to domain.ErrContentUnchanged.
func (c *Client) EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Grid) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if kb := markup(keyboard); kb != nil {
		payload["reply_markup"] = kb
	}
	_, err := c.call(ctx, "editMessageText", payload)
	if err != nil && strings.Contains(err.Error(), notModified) {
		return domain.ErrContentUnchanged
	}
	return err
}

// DeleteMessage removes a previously sent message.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := c.call(ctx, "deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	})
	return err
}

// Acknowledge completes a callback query, clearing the loading indicator on
// the user's keyboard.
func (c *Client) Acknowledge(ctx context.Context, callbackID string) error {
	_, err := c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	})
	return err
}

// call posts one Bot API method and unwraps the standard response envelope.
func (c *Client) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: marshal: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.base, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("telegram %s: http %d: decode: %w", method, resp.StatusCode, err)
	}
	if !envelope.OK {
		desc := strings.TrimSpace(envelope.Description)
		if desc == "" {
			desc = fmt.Sprintf("http %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("telegram %s failed: %s", method, desc)
	}
	return envelope.Result, nil
}
