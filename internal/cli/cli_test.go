package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-flavor/yahtzee/internal/archive"
	"github.com/pie-flavor/yahtzee/internal/config"
	"github.com/pie-flavor/yahtzee/internal/database"
	"github.com/pie-flavor/yahtzee/internal/game"
)

const testID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yahtzee.db")
	db, err := database.OpenMigrated(path)
	require.NoError(t, err)
	defer db.Close()

	card := game.Scorecard{}
	for _, c := range game.Categories {
		card.Scores = append(card.Scores, game.Entry{Kind: c.String(), Value: 2})
		card.Total += 2
	}
	require.NoError(t, archive.NewSQLite(db).Save(context.Background(), testID, card))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScorecardCommand(t *testing.T) {
	t.Setenv("ARCHIVE_BACKEND", "sqlite")
	t.Setenv("DATABASE_PATH", seedSQLite(t))

	out, err := run(t, "scorecard", strings.ToUpper(testID))
	require.NoError(t, err)

	var card game.Scorecard
	require.NoError(t, json.Unmarshal([]byte(out), &card))
	assert.Len(t, card.Scores, game.NumCategories)
	assert.Equal(t, 26, card.Total)
}

func TestScorecardCommand_Errors(t *testing.T) {
	t.Setenv("ARCHIVE_BACKEND", "sqlite")
	t.Setenv("DATABASE_PATH", seedSQLite(t))

	_, err := run(t, "scorecard", "not-a-uuid")
	assert.Error(t, err)

	_, err = run(t, "scorecard", "00000000-0000-4000-8000-000000000000")
	assert.ErrorContains(t, err, "scorecard not found")

	_, err = run(t, "scorecard")
	assert.Error(t, err)
}

func TestScorecardsCommand(t *testing.T) {
	t.Setenv("ARCHIVE_BACKEND", "sqlite")
	t.Setenv("DATABASE_PATH", seedSQLite(t))

	out, err := run(t, "scorecards", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, testID)
	assert.Contains(t, out, "26")
}

func TestConfigErrorStopsCommand(t *testing.T) {
	t.Setenv("ARCHIVE_BACKEND", "postgres")
	_, err := run(t, "scorecards")
	assert.ErrorContains(t, err, "ARCHIVE_BACKEND")
}

func TestOpenArchive_Memory(t *testing.T) {
	a, closeFn, err := openArchive(&config.Config{ArchiveBackend: config.BackendMemory})
	require.NoError(t, err)
	defer closeFn()
	_, ok := a.(*archive.Memory)
	assert.True(t, ok)
}
