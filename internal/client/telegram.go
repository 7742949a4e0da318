package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramClient sends texts to a single chat via the Bot API
// sendMessage method.
type TelegramClient struct {
	apiBase   string
	botToken  string
	chatID    string
	parseMode string
	client    *http.Client
}

type Option func(*TelegramClient)

// WithAPIBase overrides the Bot API host, used by tests.
func WithAPIBase(base string) Option {
	return func(c *TelegramClient) { c.apiBase = base }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *TelegramClient) { c.client = hc }
}

func NewTelegramClient(botToken, chatID, parseMode string, opts ...Option) *TelegramClient {
	c := &TelegramClient{
		apiBase:   defaultAPIBase,
		botToken:  botToken,
		chatID:    chatID,
		parseMode: parseMode,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// SendMessage delivers text to the configured chat and returns Telegram's
// message id. An error means the platform did not acknowledge delivery;
// the status and Telegram's description are included so rate limits are
// distinguishable in logs.
func (c *TelegramClient) SendMessage(ctx context.Context, text string) (int64, error) {
	reqBody, err := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: c.parseMode,
	})
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var sr sendMessageResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return 0, fmt.Errorf("failed to decode json: %w body=%q", err, string(body))
	}

	if resp.StatusCode != http.StatusOK || !sr.OK {
		return 0, fmt.Errorf("send rejected: status=%d description=%q", resp.StatusCode, sr.Description)
	}

	return sr.Result.MessageID, nil
}
