package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LeventeLantos/telegram-notifier/internal/model"
)

// SupabaseStore talks to the messages table through Supabase's PostgREST
// API using the project's anon key.
type SupabaseStore struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewSupabaseStore(baseURL, anonKey string, client *http.Client) *SupabaseStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SupabaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  client,
	}
}

func (s *SupabaseStore) FetchPending(ctx context.Context) ([]model.Message, error) {
	url := s.baseURL + "/rest/v1/messages?select=*&status=eq.pending&order=created_at.asc"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	s.setAuthHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pending messages: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch pending messages: unexpected status code: %d body=%q", resp.StatusCode, string(body))
	}

	var msgs []model.Message
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil, fmt.Errorf("fetch pending messages: failed to decode json: %w body=%q", err, string(body))
	}
	return msgs, nil
}

type markSentBody struct {
	Status string `json:"status"`
	SentAt string `json:"sent_at"`
}

func (s *SupabaseStore) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	url := fmt.Sprintf("%s/rest/v1/messages?id=eq.%d", s.baseURL, id)

	reqBody, err := json.Marshal(markSentBody{
		Status: string(model.Sent),
		SentAt: sentAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	s.setAuthHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("mark message %d sent: %w", id, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("mark message %d sent: unexpected status code: %d body=%q", id, resp.StatusCode, string(body))
	}
	return nil
}

func (s *SupabaseStore) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+s.anonKey)
}
