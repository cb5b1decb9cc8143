package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// fakeStore records lifecycle mutations in memory.
type fakeStore struct {
	notes          []models.Note
	checkedCounts  map[string]int
	deactivated    map[string]bool
	activeNotesErr error
}

func newFakeStore(notes []models.Note) *fakeStore {
	return &fakeStore{
		notes:         notes,
		checkedCounts: make(map[string]int),
		deactivated:   make(map[string]bool),
	}
}

func (s *fakeStore) InsertNote(ctx context.Context, note *models.Note) error {
	s.notes = append(s.notes, *note)
	return nil
}

func (s *fakeStore) GetActiveNotes(ctx context.Context) ([]models.Note, error) {
	if s.activeNotesErr != nil {
		return nil, s.activeNotesErr
	}
	var active []models.Note
	for _, n := range s.notes {
		if n.Active && !s.deactivated[n.ID] {
			active = append(active, n)
		}
	}
	return active, nil
}

func (s *fakeStore) GetNotes(ctx context.Context, includeInactive bool) ([]models.Note, error) {
	return s.notes, nil
}

func (s *fakeStore) GetNoteByID(ctx context.Context, id string) (*models.Note, error) {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return &s.notes[i], nil
		}
	}
	return nil, errors.ErrNoteNotFound
}

func (s *fakeStore) UpdateLastChecked(ctx context.Context, id string, checkedAt time.Time) error {
	s.checkedCounts[id]++
	return nil
}

func (s *fakeStore) Deactivate(ctx context.Context, id string) error {
	s.deactivated[id] = true
	return nil
}

func (s *fakeStore) Activate(ctx context.Context, id string) error {
	delete(s.deactivated, id)
	return nil
}

func (s *fakeStore) DeleteByID(ctx context.Context, id string) error            { return nil }
func (s *fakeStore) DeleteBySymbol(ctx context.Context, sym string) (int64, error) { return 0, nil }
func (s *fakeStore) DeleteInactive(ctx context.Context) (int64, error)          { return 0, nil }
func (s *fakeStore) DeleteAll(ctx context.Context) (int64, error)               { return 0, nil }
func (s *fakeStore) Close() error                                               { return nil }

// fakeProvider serves canned quotes per symbol.
type fakeProvider struct {
	prices map[string]*models.PriceInfo
	errs   map[string]error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) GetPriceInfo(ctx context.Context, symbol string) (*models.PriceInfo, error) {
	if err, ok := p.errs[symbol]; ok {
		return nil, err
	}
	return p.prices[symbol], nil
}

func watchNote(id, symbol string, buyPrice *float64, cond models.Conditions) models.Note {
	return models.Note{
		ID:         id,
		RawText:    "note " + id,
		Symbol:     symbol,
		ActionType: models.ActionWatch,
		BuyPrice:   buyPrice,
		Conditions: cond,
		CreatedAt:  time.Now().AddDate(0, 0, -1),
		Active:     true,
	}
}

func TestRunCheckEndToEnd(t *testing.T) {
	// bought at 170, alert above 200, quote comes back at 205
	notes := []models.Note{
		watchNote("n1", "NVDA", f64(170), models.Conditions{PriceAbove: f64(200)}),
	}
	st := newFakeStore(notes)
	prov := &fakeProvider{prices: map[string]*models.PriceInfo{
		"NVDA": {Symbol: "NVDA", CurrentPrice: 205, Timestamp: time.Now()},
	}}

	checker := NewChecker(st, prov, zerolog.Nop())
	alerts := checker.RunCheck(context.Background(), notes)

	require.Len(t, alerts, 1)
	assert.Equal(t, "n1", alerts[0].NoteID)
	assert.Equal(t, []string{"Price crossed above $200.00"}, alerts[0].Reasons)
	assert.Equal(t, 1, st.checkedCounts["n1"])
	assert.True(t, st.deactivated["n1"])
}

func TestRunCheckLifecycle(t *testing.T) {
	notes := []models.Note{
		watchNote("hit", "NVDA", nil, models.Conditions{PriceAbove: f64(200)}),
		watchNote("miss", "AAPL", nil, models.Conditions{PriceAbove: f64(500)}),
		watchNote("noquote", "ZZZZ", nil, models.Conditions{PriceAbove: f64(1)}),
	}
	st := newFakeStore(notes)
	prov := &fakeProvider{prices: map[string]*models.PriceInfo{
		"NVDA": {Symbol: "NVDA", CurrentPrice: 210, Timestamp: time.Now()},
		"AAPL": {Symbol: "AAPL", CurrentPrice: 190, Timestamp: time.Now()},
		// ZZZZ resolves to no quote
	}}

	checker := NewChecker(st, prov, zerolog.Nop())
	alerts := checker.RunCheck(context.Background(), notes)

	require.Len(t, alerts, 1)
	assert.Equal(t, "hit", alerts[0].NoteID)

	// Every note is marked checked exactly once, including the one without
	// a quote.
	for _, id := range []string{"hit", "miss", "noquote"} {
		assert.Equal(t, 1, st.checkedCounts[id], "note %s", id)
	}

	// Only the alerted note is deactivated.
	assert.True(t, st.deactivated["hit"])
	assert.False(t, st.deactivated["miss"])
	assert.False(t, st.deactivated["noquote"])
}

func TestRunCheckProviderFailure(t *testing.T) {
	notes := []models.Note{
		watchNote("ok", "NVDA", nil, models.Conditions{PriceAbove: f64(200)}),
		watchNote("broken", "AAPL", nil, models.Conditions{PriceAbove: f64(1)}),
	}
	st := newFakeStore(notes)
	prov := &fakeProvider{
		prices: map[string]*models.PriceInfo{
			"NVDA": {Symbol: "NVDA", CurrentPrice: 210, Timestamp: time.Now()},
		},
		errs: map[string]error{
			"AAPL": errors.NewQuoteError("AAPL", errors.ErrQuoteUnavailable),
		},
	}

	checker := NewChecker(st, prov, zerolog.Nop())
	alerts := checker.RunCheck(context.Background(), notes)

	// The failing note produces no alert and no checked timestamp; the
	// rest of the batch is unaffected.
	require.Len(t, alerts, 1)
	assert.Equal(t, "ok", alerts[0].NoteID)
	assert.Equal(t, 1, st.checkedCounts["ok"])
	assert.Zero(t, st.checkedCounts["broken"])
	assert.False(t, st.deactivated["broken"])
}

func TestRunCheckEmptyBatch(t *testing.T) {
	st := newFakeStore(nil)
	checker := NewChecker(st, &fakeProvider{}, zerolog.Nop())
	alerts := checker.RunCheck(context.Background(), nil)
	assert.Empty(t, alerts)
}

func TestCheckAllStoreFailure(t *testing.T) {
	st := newFakeStore(nil)
	st.activeNotesErr = errors.ErrStoreUnavailable

	checker := NewChecker(st, &fakeProvider{}, zerolog.Nop())
	_, _, err := checker.CheckAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStoreUnavailable))
}

func TestCheckAllSkipsInactiveNotes(t *testing.T) {
	inactive := watchNote("old", "NVDA", nil, models.Conditions{PriceAbove: f64(1)})
	inactive.Active = false
	notes := []models.Note{
		inactive,
		watchNote("live", "NVDA", nil, models.Conditions{PriceAbove: f64(1)}),
	}
	st := newFakeStore(notes)
	prov := &fakeProvider{prices: map[string]*models.PriceInfo{
		"NVDA": {Symbol: "NVDA", CurrentPrice: 100, Timestamp: time.Now()},
	}}

	checker := NewChecker(st, prov, zerolog.Nop())
	alerts, checked, err := checker.CheckAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, checked)
	require.Len(t, alerts, 1)
	assert.Equal(t, "live", alerts[0].NoteID)
	assert.Zero(t, st.checkedCounts["old"])
}
