package store

import (
	"context"
	"time"

	"github.com/LeventeLantos/telegram-notifier/internal/model"
)

// MessageStore is the surface the runner needs from the messages table.
// FetchPending returns rows in ascending created_at order; MarkSent flips
// a row to sent with the given timestamp. Rows that fail delivery are
// left untouched so the next run picks them up again.
type MessageStore interface {
	FetchPending(ctx context.Context) ([]model.Message, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
}
