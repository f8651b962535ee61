package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/drilldown/internal/logging"
	"github.com/aretw0/drilldown/pkg/domain"
)

// Handler processes one normalized inbound update.
type Handler func(ctx context.Context, update domain.Update)

// Poller long-polls getUpdates and dispatches each update on its own
// goroutine, so one conversation's debounce never stalls another. Per-chat
// ordering is the session manager's job, not the poller's.
type Poller struct {
	client  *Client
	timeout int // long-poll timeout, seconds
	logger  *slog.Logger

	offset int64
}

// PollerOption configures the Poller.
type PollerOption func(*Poller)

// WithPollTimeout sets the long-poll timeout in seconds (default 30).
func WithPollTimeout(seconds int) PollerOption {
	return func(p *Poller) {
		if seconds > 0 {
			p.timeout = seconds
		}
	}
}

// WithPollerLogger sets a structured logger.
func WithPollerLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = logger
	}
}

// NewPoller creates an update source over the given client.
func NewPoller(client *Client, opts ...PollerOption) *Poller {
	p := &Poller{
		client:  client,
		timeout: 30,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is canceled, then drains: it stops fetching, waits for
// every in-flight handler to return, and only then returns. Fetch errors are
// retried with exponential backoff; they never abort the loop.
func (p *Poller) Run(ctx context.Context, handle Handler) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	backoff := 2 * time.Second
	for {
		if ctx.Err() != nil {
			p.logger.Info("update polling stopped, draining handlers")
			return nil
		}

		updates, err := p.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("update polling stopped, draining handlers")
				return nil
			}
			p.logger.Warn("getUpdates failed", "err", err)
			if !sleepOrCancel(ctx, backoff) {
				return nil
			}
			if backoff < 15*time.Second {
				backoff *= 2
				if backoff > 15*time.Second {
					backoff = 15 * time.Second
				}
			}
			continue
		}
		backoff = 2 * time.Second

		for _, raw := range updates {
			update, ok := normalize(raw)
			if !ok {
				continue
			}
			wg.Add(1)
			go func(u domain.Update) {
				defer wg.Done()
				handle(ctx, u)
			}(update)
		}
	}
}

type rawUpdate struct {
	UpdateID int64        `json:"update_id"`
	Message  *rawMessage  `json:"message,omitempty"`
	Callback *rawCallback `json:"callback_query,omitempty"`
}

type rawMessage struct {
	MessageID int     `json:"message_id"`
	From      rawUser `json:"from"`
	Chat      rawChat `json:"chat"`
	Date      int64   `json:"date"`
	Text      string  `json:"text"`
}

type rawCallback struct {
	ID      string      `json:"id"`
	From    rawUser     `json:"from"`
	Message *rawMessage `json:"message,omitempty"`
	Data    string      `json:"data"`
}

type rawUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

type rawChat struct {
	ID int64 `json:"id"`
}

func (u rawUser) fullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// normalize converts a raw Bot API update into the engine's shape. Updates
// that carry neither a text message nor a callback query are skipped.
func normalize(raw rawUpdate) (domain.Update, bool) {
	switch {
	case raw.Callback != nil:
		update := domain.Update{
			ID:         raw.UpdateID,
			Kind:       domain.KindCallback,
			UserID:     raw.Callback.From.ID,
			UserName:   raw.Callback.From.fullName(),
			Text:       raw.Callback.Data,
			CallbackID: raw.Callback.ID,
			Time:       time.Now(),
		}
		if raw.Callback.Message != nil {
			update.ChatID = raw.Callback.Message.Chat.ID
			update.Time = time.Unix(raw.Callback.Message.Date, 0)
		}
		return update, true

	case raw.Message != nil && raw.Message.Text != "":
		update := domain.Update{
			ID:       raw.UpdateID,
			Kind:     domain.KindMessage,
			UserID:   raw.Message.From.ID,
			UserName: raw.Message.From.fullName(),
			ChatID:   raw.Message.Chat.ID,
			Text:     raw.Message.Text,
			Time:     time.Unix(raw.Message.Date, 0),
		}
		if strings.HasPrefix(update.Text, "/") {
			fields := strings.Fields(update.Text)
			command := strings.TrimPrefix(fields[0], "/")
			// Group chats qualify commands with the bot's name.
			if at := strings.IndexByte(command, '@'); at >= 0 {
				command = command[:at]
			}
			update.Kind = domain.KindCommand
			update.Command = command
			update.Args = fields[1:]
		}
		return update, true
	}
	return domain.Update{}, false
}

// fetch runs one getUpdates long poll and advances the offset past every
// update it returns, acknowledged or not.
func (p *Poller) fetch(ctx context.Context) ([]rawUpdate, error) {
	values := url.Values{}
	values.Set("timeout", strconv.Itoa(p.timeout))
	if p.offset > 0 {
		values.Set("offset", strconv.FormatInt(p.offset, 10))
	}

	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?%s", p.client.base, p.client.token, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		OK          bool        `json:"ok"`
		Description string      `json:"description,omitempty"`
		Result      []rawUpdate `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("telegram getUpdates: http %d: decode: %w", resp.StatusCode, err)
	}
	if !envelope.OK {
		desc := strings.TrimSpace(envelope.Description)
		if desc == "" {
			desc = fmt.Sprintf("http %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("telegram getUpdates failed: %s", desc)
	}

	for _, upd := range envelope.Result {
		if upd.UpdateID >= p.offset {
			p.offset = upd.UpdateID + 1
		}
	}
	return envelope.Result, nil
}

func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
