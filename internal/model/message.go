package model

import "time"

type Status string

const (
	Pending Status = "pending"
	Sent    Status = "sent"
)

// Message is one row of the Supabase messages table. SentAt stays nil
// until delivery is confirmed and the row is marked sent.
type Message struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at"`
}
