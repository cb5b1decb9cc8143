// Package integration holds end-to-end tests that run the full note
// pipeline: persist in SQLite, evaluate against quotes, render alerts.
package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/evaluator"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/models"
	"stockwatch/internal/notify"
	"stockwatch/internal/store"
)

func f64(v float64) *float64 { return &v }

type cannedProvider struct {
	prices map[string]*models.PriceInfo
}

func (p *cannedProvider) Name() string { return "canned" }

func (p *cannedProvider) GetPriceInfo(ctx context.Context, symbol string) (*models.PriceInfo, error) {
	return p.prices[symbol], nil
}

func quote(symbol string, current float64) *models.PriceInfo {
	return &models.PriceInfo{Symbol: symbol, CurrentPrice: current, Timestamp: time.Now()}
}

// TestCheckPipeline walks the whole flow: notes stored in SQLite, a batch
// check against quotes, alert rendering, and lifecycle persistence.
func TestCheckPipeline(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "stockwatch.db"))
	require.NoError(t, err)
	defer st.Close()

	hit := models.NewNote("bought NVDA at 170, alert above 200", "NVDA",
		models.ActionBuy, f64(170), models.Conditions{PriceAbove: f64(200)}, "long term hold")
	miss := models.NewNote("watch AAPL above 500", "AAPL",
		models.ActionWatch, nil, models.Conditions{PriceAbove: f64(500)}, "")
	noQuote := models.NewNote("watch ZZZZ", "ZZZZ",
		models.ActionWatch, nil, models.Conditions{PriceAbove: f64(1)}, "")

	for _, n := range []*models.Note{hit, miss, noQuote} {
		require.NoError(t, st.InsertNote(ctx, n))
	}

	prov := &cannedProvider{prices: map[string]*models.PriceInfo{
		"NVDA": quote("NVDA", 205),
		"AAPL": quote("AAPL", 190),
	}}

	checker := evaluator.NewChecker(st, prov, zerolog.Nop())
	alerts, checked, err := checker.CheckAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, checked)
	require.Len(t, alerts, 1)
	assert.Equal(t, hit.ID, alerts[0].NoteID)
	assert.Equal(t, []string{"Price crossed above $200.00"}, alerts[0].Reasons)

	// Alerted note is deactivated; the rest stay live but marked checked.
	active, err := st.GetActiveNotes(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, n := range active {
		assert.NotEqual(t, hit.ID, n.ID)
		require.NotNil(t, n.LastChecked, "note %s should carry a checked timestamp", n.Symbol)
	}

	stored, err := st.GetNoteByID(ctx, hit.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	require.NotNil(t, stored.LastChecked)

	// Render the batch the way the check command does.
	var buf bytes.Buffer
	term := notify.NewTerminal(&buf, false)
	require.NoError(t, term.Notify(ctx, alerts))
	out := buf.String()
	assert.Contains(t, out, "STOCK ALERT: NVDA")
	assert.Contains(t, out, "Current Price: $205.00")
	assert.Contains(t, out, "  • Price crossed above $200.00")
}

// TestCheckPipelineRepeatRun verifies a second run is quiet: the alerted
// note is inactive, so the same quote triggers nothing new.
func TestCheckPipelineRepeatRun(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "stockwatch.db"))
	require.NoError(t, err)
	defer st.Close()

	note := models.NewNote("alert NVDA above 200", "NVDA",
		models.ActionWatch, nil, models.Conditions{PriceAbove: f64(200)}, "")
	require.NoError(t, st.InsertNote(ctx, note))

	prov := &cannedProvider{prices: map[string]*models.PriceInfo{
		"NVDA": quote("NVDA", 205),
	}}
	checker := evaluator.NewChecker(st, prov, zerolog.Nop())

	alerts, checked, err := checker.CheckAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, checked)
	require.Len(t, alerts, 1)

	alerts, checked, err = checker.CheckAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, checked)
	assert.Empty(t, alerts)
}

// TestCheckPipelineSuspendedSource verifies that a suspended quote source
// leaves notes untouched for the next run instead of marking them checked.
func TestCheckPipelineSuspendedSource(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "stockwatch.db"))
	require.NoError(t, err)
	defer st.Close()

	note := models.NewNote("alert NVDA above 200", "NVDA",
		models.ActionWatch, nil, models.Conditions{PriceAbove: f64(200)}, "")
	require.NoError(t, st.InsertNote(ctx, note))

	failing := marketdata.NewResilientProvider(&downProvider{}, marketdata.BreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Cooldown:         time.Hour,
	})
	checker := evaluator.NewChecker(st, failing, zerolog.Nop())

	alerts, _, err := checker.CheckAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.True(t, failing.Suspended())

	stored, err := st.GetNoteByID(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
	assert.Nil(t, stored.LastChecked)
}

type downProvider struct{}

func (p *downProvider) Name() string { return "down" }

func (p *downProvider) GetPriceInfo(ctx context.Context, symbol string) (*models.PriceInfo, error) {
	return nil, context.DeadlineExceeded
}
