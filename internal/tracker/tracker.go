// internal/tracker/tracker.go
//
// Game orchestration for the HTTP and CLI surfaces.
// Responsibilities:
//   - Resolve client-supplied session ids (malformed ids never reach storage).
//   - Run rolls and marks against the registry under the per-session lock.
//   - Archive the scorecard when the last category is filled, then drop the
//     session. A failed archive write leaves the session untouched so the
//     same mark can be retried.
//   - Keep the game metrics current.

package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pie-flavor/yahtzee/internal/archive"
	"github.com/pie-flavor/yahtzee/internal/common/uuid"
	"github.com/pie-flavor/yahtzee/internal/game"
	"github.com/pie-flavor/yahtzee/internal/metrics"
	"github.com/pie-flavor/yahtzee/internal/registry"
)

// Config holds the service dependencies.
type Config struct {
	Sessions registry.Store
	Archive  archive.Archive
	Roller   game.Roller
	IDs      uuid.UUID
}

// Service implements the tracker operations.
type Service struct {
	sessions registry.Store
	archive  archive.Archive
	roller   game.Roller
	ids      uuid.UUID
}

// Current is the state shown on the index page.
type Current struct {
	ID      string
	View    game.View
	Created bool // a new session was started for this request
}

// MarkResult reports whether the mark finished the game.
type MarkResult struct {
	Completed bool
	Scorecard game.Scorecard
}

// New creates a tracker service
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Sessions == nil {
		return nil, ErrNilSessions
	}
	if cfg.Archive == nil {
		return nil, ErrNilArchive
	}
	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}
	if cfg.IDs == nil {
		return nil, ErrNilUUIDGenerator
	}
	return &Service{
		sessions: cfg.Sessions,
		archive:  cfg.Archive,
		roller:   cfg.Roller,
		ids:      cfg.IDs,
	}, nil
}

// ParseID validates a client-supplied session id and returns its canonical form.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidID
	}
	return id, nil
}

// Current returns the view of the session named by rawID. When rawID is
// empty, malformed or unknown, a new session with a fresh id is started.
func (s *Service) Current(ctx context.Context, rawID string) (Current, error) {
	var view game.View
	snapshot := func(g *game.Session) error {
		view = g.View()
		return nil
	}

	if id, err := ParseID(rawID); err == nil {
		err := s.sessions.Get(ctx, id, snapshot)
		if err == nil {
			return Current{ID: id, View: view}, nil
		}
		if !errors.Is(err, registry.ErrNotFound) {
			return Current{}, fmt.Errorf("load session %s: %w", id, err)
		}
	}

	id := s.ids.NewUUID()
	if _, err := s.sessions.GetOrCreate(ctx, id, s.newSession, snapshot); err != nil {
		return Current{}, fmt.Errorf("create session %s: %w", id, err)
	}
	metrics.SessionsCreated.Inc()
	metrics.LiveSessions.Set(float64(s.sessions.Len()))
	log.Info().Str("session", id).Msg("session started")

	return Current{ID: id, View: view, Created: true}, nil
}

// Roll rerolls the unheld dice of the session. Rolls past the turn limit are
// ignored without error.
func (s *Service) Roll(ctx context.Context, rawID string, held [game.DiceCount]bool) error {
	id, err := ParseID(rawID)
	if err != nil {
		return ErrSessionNotFound
	}

	outcome := metrics.Ignored
	err = s.sessions.Get(ctx, id, func(g *game.Session) error {
		if g.Roll(held) {
			outcome = metrics.Applied
			log.Debug().
				Str("session", id).
				Ints("dice", diceValues(g.Dice())).
				Int("rollsUsed", g.RollsUsed()).
				Msg("rolled")
		}
		return nil
	})
	if errors.Is(err, registry.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("roll %s: %w", id, err)
	}
	metrics.Rolls.WithLabelValues(outcome).Inc()
	return nil
}

// Mark scores the category at index with the current dice. Illegal marks are
// ignored without error. Filling the last category archives the scorecard
// and removes the session.
func (s *Service) Mark(ctx context.Context, rawID string, index int) (MarkResult, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return MarkResult{}, ErrSessionNotFound
	}

	var res MarkResult
	outcome := metrics.Ignored
	err = s.sessions.Get(ctx, id, func(g *game.Session) error {
		m, ok := g.Plan(index)
		if !ok {
			return nil
		}
		if !m.Final {
			g.Apply(m)
			outcome = metrics.Applied
			log.Debug().
				Str("session", id).
				Str("category", m.Category.String()).
				Int("score", m.Score).
				Msg("marked")
			return nil
		}

		card, err := g.ScorecardWith(m)
		if err != nil {
			return err
		}
		if err := s.archive.Save(ctx, id, card); err != nil && !errors.Is(err, archive.ErrAlreadyArchived) {
			metrics.ArchiveErrors.WithLabelValues("save").Inc()
			return fmt.Errorf("archive scorecard: %w", err)
		}
		g.Apply(m)
		s.sessions.Remove(id)

		outcome = metrics.Completed
		res = MarkResult{Completed: true, Scorecard: card}
		return nil
	})
	if errors.Is(err, registry.ErrNotFound) {
		return MarkResult{}, ErrSessionNotFound
	}
	if err != nil {
		return MarkResult{}, fmt.Errorf("mark %s: %w", id, err)
	}

	metrics.Marks.WithLabelValues(outcome).Inc()
	if res.Completed {
		metrics.FinalScores.Observe(float64(res.Scorecard.Total))
		metrics.LiveSessions.Set(float64(s.sessions.Len()))
		log.Info().Str("session", id).Int("total", res.Scorecard.Total).Msg("game completed")
	}
	return res, nil
}

// Scorecard loads an archived scorecard.
func (s *Service) Scorecard(ctx context.Context, rawID string) (game.Scorecard, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return game.Scorecard{}, ErrScorecardNotFound
	}
	card, err := s.archive.Load(ctx, id)
	if errors.Is(err, archive.ErrNotFound) {
		return game.Scorecard{}, ErrScorecardNotFound
	}
	if err != nil {
		metrics.ArchiveErrors.WithLabelValues("load").Inc()
		return game.Scorecard{}, fmt.Errorf("load scorecard %s: %w", id, err)
	}
	return card, nil
}

func (s *Service) newSession() *game.Session { return game.NewSession(s.roller) }

func diceValues(d [game.DiceCount]game.Die) []int {
	out := make([]int, len(d))
	for i, die := range d {
		out[i] = die.Value
	}
	return out
}
