package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pie-flavor/yahtzee/internal/game"
)

// SQLite keeps scorecards in the scorecards table created by the
// database migrations.
type SQLite struct{ db *sql.DB }

// NewSQLite wraps an open, migrated database handle.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Save inserts the scorecard. The primary key on id makes the write
// once-only; an ignored insert is reported as ErrAlreadyArchived.
func (s *SQLite) Save(ctx context.Context, id string, card game.Scorecard) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal scorecard: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO scorecards(id, total, card, created_at)
		 VALUES(?,?,?,?)`,
		id, card.Total, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert scorecard %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert scorecard %s: %w", id, err)
	}
	if n == 0 {
		return ErrAlreadyArchived
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, id string) (game.Scorecard, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT card FROM scorecards WHERE id=?`, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Scorecard{}, ErrNotFound
	}
	if err != nil {
		return game.Scorecard{}, fmt.Errorf("query scorecard %s: %w", id, err)
	}
	var card game.Scorecard
	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		return game.Scorecard{}, fmt.Errorf("decode scorecard %s: %w", id, err)
	}
	return card, nil
}

// List returns the most recently archived scorecards, newest first.
func (s *SQLite) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, total, created_at
		 FROM scorecards
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list scorecards: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		var (
			r       Summary
			created string
		)
		if err := rows.Scan(&r.ID, &r.Total, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
