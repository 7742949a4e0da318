package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LeventeLantos/telegram-notifier/internal/cache"
	"github.com/LeventeLantos/telegram-notifier/internal/store"
)

type SendClient interface {
	SendMessage(ctx context.Context, text string) (messageID int64, err error)
}

// Runner performs one relay pass: fetch pending rows, deliver each to the
// chat in created_at order, mark delivered rows sent. Per-message failures
// are logged and contained; only a fetch failure aborts the run.
type Runner struct {
	store  store.MessageStore
	client SendClient

	cache          cache.DeliveryCache
	summaryEnabled bool
}

// Result counts the outcome of a run. Failed includes messages whose
// delivery was rejected and messages that were delivered but could not be
// marked sent (those stay pending and will be re-sent next run).
type Result struct {
	Fetched   int
	Delivered int
	Failed    int
}

func (r Result) Summary() string {
	return fmt.Sprintf("%d fetched, %d delivered, %d failed", r.Fetched, r.Delivered, r.Failed)
}

func NewRunner(st store.MessageStore, client SendClient) *Runner {
	return &Runner{
		store:  st,
		client: client,
	}
}

// WithCache records delivered messages in the given cache, best effort.
func (r *Runner) WithCache(c cache.DeliveryCache) *Runner {
	r.cache = c
	return r
}

// WithSummary sends the run summary to the chat after a non-empty run.
func (r *Runner) WithSummary(enabled bool) *Runner {
	r.summaryEnabled = enabled
	return r
}

func (r *Runner) Run(ctx context.Context) (Result, error) {
	msgs, err := r.store.FetchPending(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch pending: %w", err)
	}

	res := Result{Fetched: len(msgs)}

	if len(msgs) == 0 {
		slog.Info("no pending messages")
		return res, nil
	}

	slog.Info("processing pending messages", "count", len(msgs))

	for _, m := range msgs {
		telegramID, err := r.client.SendMessage(ctx, m.Content)
		if err != nil {
			res.Failed++
			slog.Error("failed to send message", "id", m.ID, "error", err)
			continue
		}

		sentAt := time.Now().UTC()
		if err := r.store.MarkSent(ctx, m.ID, sentAt); err != nil {
			// Delivered but still pending in the store: the next run
			// will send it again.
			res.Failed++
			slog.Error("message delivered but not marked sent",
				"id", m.ID,
				"telegram_message_id", telegramID,
				"error", err,
			)
			continue
		}

		res.Delivered++
		slog.Info("message sent", "id", m.ID, "telegram_message_id", telegramID)

		if r.cache != nil {
			if err := r.cache.StoreDelivered(ctx, m.ID, telegramID, sentAt); err != nil {
				slog.Warn("failed to cache delivery", "id", m.ID, "error", err)
			}
		}
	}

	slog.Info("run completed",
		"fetched", res.Fetched,
		"delivered", res.Delivered,
		"failed", res.Failed,
	)

	if r.summaryEnabled {
		summary := fmt.Sprintf("Delivered %d of %d pending messages", res.Delivered, res.Fetched)
		if _, err := r.client.SendMessage(ctx, summary); err != nil {
			slog.Warn("failed to send run summary", "error", err)
		}
	}

	return res, nil
}
