package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pie-flavor/yahtzee/internal/game"
)

type memoryRecord struct {
	card    game.Scorecard
	created time.Time
	seq     int
}

// Memory is a process-local Archive for development and tests.
type Memory struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	seq     int
}

// NewMemory constructs an empty in-memory archive.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]memoryRecord)}
}

func (m *Memory) Save(ctx context.Context, id string, card game.Scorecard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; ok {
		return ErrAlreadyArchived
	}
	m.seq++
	m.records[id] = memoryRecord{card: cloneCard(card), created: time.Now().UTC(), seq: m.seq}
	return nil
}

func (m *Memory) Load(ctx context.Context, id string) (game.Scorecard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return game.Scorecard{}, ErrNotFound
	}
	return cloneCard(rec.card), nil
}

func (m *Memory) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	m.mu.RLock()
	type row struct {
		Summary
		seq int
	}
	rows := make([]row, 0, len(m.records))
	for id, rec := range m.records {
		rows = append(rows, row{Summary{ID: id, Total: rec.card.Total, CreatedAt: rec.created}, rec.seq})
	}
	m.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Summary)
	}
	return out, nil
}

func cloneCard(c game.Scorecard) game.Scorecard {
	out := game.Scorecard{Total: c.Total, Scores: make([]game.Entry, len(c.Scores))}
	copy(out.Scores, c.Scores)
	return out
}
