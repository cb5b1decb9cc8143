package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
)

func f64(v float64) *float64 { return &v }

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "stockwatch_test.db")
	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testNote(symbol string) *models.Note {
	return models.NewNote("test note for "+symbol, symbol, models.ActionWatch,
		f64(170), models.Conditions{PriceAbove: f64(200)}, "opinion")
}

func TestInsertAndGetActive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := testNote("NVDA")
	require.NoError(t, s.InsertNote(ctx, note))

	notes, err := s.GetActiveNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	got := notes[0]
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, "NVDA", got.Symbol)
	assert.Equal(t, models.ActionWatch, got.ActionType)
	require.NotNil(t, got.BuyPrice)
	assert.Equal(t, 170.0, *got.BuyPrice)
	require.NotNil(t, got.Conditions.PriceAbove)
	assert.Equal(t, 200.0, *got.Conditions.PriceAbove)
	assert.Equal(t, "opinion", got.UserOpinion)
	assert.True(t, got.Active)
	assert.Nil(t, got.LastChecked)
}

func TestInsertRejectsSymbolless(t *testing.T) {
	s := newTestStore(t)

	note := testNote("NVDA")
	note.Symbol = ""
	err := s.InsertNote(context.Background(), note)
	assert.ErrorIs(t, err, errors.ErrNoSymbol)
}

func TestGetActiveNotesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := testNote("AAPL")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testNote("NVDA")

	require.NoError(t, s.InsertNote(ctx, older))
	require.NoError(t, s.InsertNote(ctx, newer))

	notes, err := s.GetActiveNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "NVDA", notes[0].Symbol, "most recently created first")
	assert.Equal(t, "AAPL", notes[1].Symbol)
}

func TestUpdateLastChecked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := testNote("NVDA")
	require.NoError(t, s.InsertNote(ctx, note))

	checkedAt := time.Now().Truncate(time.Second)
	require.NoError(t, s.UpdateLastChecked(ctx, note.ID, checkedAt))

	got, err := s.GetNoteByID(ctx, note.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastChecked)
	assert.WithinDuration(t, checkedAt, *got.LastChecked, time.Second)

	assert.ErrorIs(t, s.UpdateLastChecked(ctx, "missing", checkedAt), errors.ErrNoteNotFound)
}

func TestDeactivateAndActivate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := testNote("NVDA")
	require.NoError(t, s.InsertNote(ctx, note))

	require.NoError(t, s.Deactivate(ctx, note.ID))
	active, err := s.GetActiveNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.GetNotes(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	require.NoError(t, s.Activate(ctx, note.ID))
	active, err = s.GetActiveNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	assert.ErrorIs(t, s.Deactivate(ctx, "missing"), errors.ErrNoteNotFound)
}

func TestGetNotesFiltersInactive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keep := testNote("NVDA")
	drop := testNote("AAPL")
	require.NoError(t, s.InsertNote(ctx, keep))
	require.NoError(t, s.InsertNote(ctx, drop))
	require.NoError(t, s.Deactivate(ctx, drop.ID))

	activeOnly, err := s.GetNotes(ctx, false)
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "NVDA", activeOnly[0].Symbol)

	all, err := s.GetNotes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteOperations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n1 := testNote("NVDA")
	n2 := testNote("NVDA")
	n3 := testNote("AAPL")
	for _, n := range []*models.Note{n1, n2, n3} {
		require.NoError(t, s.InsertNote(ctx, n))
	}

	t.Run("by id", func(t *testing.T) {
		require.NoError(t, s.DeleteByID(ctx, n1.ID))
		_, err := s.GetNoteByID(ctx, n1.ID)
		assert.ErrorIs(t, err, errors.ErrNoteNotFound)
		assert.ErrorIs(t, s.DeleteByID(ctx, n1.ID), errors.ErrNoteNotFound)
	})

	t.Run("by symbol normalizes", func(t *testing.T) {
		n, err := s.DeleteBySymbol(ctx, "nvda")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("inactive", func(t *testing.T) {
		require.NoError(t, s.Deactivate(ctx, n3.ID))
		n, err := s.DeleteInactive(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("all", func(t *testing.T) {
		require.NoError(t, s.InsertNote(ctx, testNote("MSFT")))
		n, err := s.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		remaining, err := s.GetNotes(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}

func TestConditionlessNoteSurvivesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := models.NewNote("just watching", "TSLA", models.ActionWatch, nil, models.Conditions{}, "")
	require.NoError(t, s.InsertNote(ctx, note))

	got, err := s.GetNoteByID(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, got.Conditions.IsZero())
	assert.Nil(t, got.BuyPrice)
	assert.Empty(t, got.UserOpinion)
}
