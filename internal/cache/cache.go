package cache

import (
	"context"
	"time"
)

// DeliveryCache keeps a short-lived record of delivered messages, keyed by
// the store row id. Purely informational; store state is the source of truth.
type DeliveryCache interface {
	StoreDelivered(ctx context.Context, messageID int64, telegramMessageID int64, sentAt time.Time) error
}
