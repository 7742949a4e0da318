package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/LeventeLantos/telegram-notifier/internal/model"
)

// PostgresStore reads the same messages table over a direct SQL connection,
// for deployments that use Supabase's database URL instead of the REST API.
type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(url string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	return NewPostgresStore(db), nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FetchPending(ctx context.Context) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, status, created_at, sent_at
		FROM messages
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		var status string
		var sentAt sql.NullTime

		if err := rows.Scan(
			&m.ID,
			&m.Content,
			&status,
			&m.CreatedAt,
			&sentAt,
		); err != nil {
			return nil, err
		}

		m.Status = model.Status(status)
		if sentAt.Valid {
			t := sentAt.Time
			m.SentAt = &t
		}

		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *PostgresStore) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE messages
		SET status = 'sent',
		    sent_at = $2
		WHERE id = $1
	`, id, sentAt.UTC())
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
