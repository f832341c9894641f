// internal/archive/archive.go
//
// Durable record of completed games.
// Responsibilities:
//   - Archive: write-once storage of a finished Scorecard keyed by session id.
//   - Lister: most-recent-first listing of archived ids with totals.
//
// Backends: SQLite (default), Redis and process-local memory. All of them
// store the scorecard in its JSON wire format and never mutate it after the
// first write.

package archive

//go:generate mockgen -package=mocks -destination=mocks/mock_archive.go github.com/pie-flavor/yahtzee/internal/archive Archive

import (
	"context"
	"errors"
	"time"

	"github.com/pie-flavor/yahtzee/internal/game"
)

var (
	// ErrNotFound is returned by Load for ids that were never archived.
	ErrNotFound = errors.New("archive: scorecard not found")

	// ErrAlreadyArchived is returned by Save when the id already has a record.
	ErrAlreadyArchived = errors.New("archive: scorecard already archived")
)

// Archive stores completed scorecards.
type Archive interface {
	// Save persists card under id. Each id may be saved once.
	Save(ctx context.Context, id string, card game.Scorecard) error

	// Load returns the scorecard for id, or ErrNotFound.
	Load(ctx context.Context, id string) (game.Scorecard, error)
}

// Summary is one row of an archive listing.
type Summary struct {
	ID        string    `json:"id"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Lister is implemented by backends that can enumerate their records.
type Lister interface {
	List(ctx context.Context, limit int) ([]Summary, error)
}

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 20

var (
	_ Archive = (*Memory)(nil)
	_ Archive = (*SQLite)(nil)
	_ Archive = (*Redis)(nil)
	_ Lister  = (*Memory)(nil)
	_ Lister  = (*SQLite)(nil)
	_ Lister  = (*Redis)(nil)
)
