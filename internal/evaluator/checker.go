package evaluator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"stockwatch/internal/errors"
	"stockwatch/internal/logging"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/models"
	"stockwatch/internal/store"
)

// Checker runs a batch evaluation over notes: one quote fetch and one
// evaluation per note, then the lifecycle side effects (checked timestamp,
// deactivation of alerted notes).
type Checker struct {
	store     store.NoteStore
	provider  marketdata.Provider
	evaluator *Evaluator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewChecker creates a batch checker.
func NewChecker(st store.NoteStore, provider marketdata.Provider, logger zerolog.Logger) *Checker {
	return &Checker{
		store:     st,
		provider:  provider,
		evaluator: New(),
		logger:    logger,
		now:       time.Now,
	}
}

// CheckAll loads every active note and runs a batch check over them. Failing
// to reach the store is the only hard failure; everything downstream degrades
// to per-note skips.
func (c *Checker) CheckAll(ctx context.Context) ([]models.Alert, int, error) {
	notes, err := c.store.GetActiveNotes(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "loading active notes")
	}
	return c.RunCheck(ctx, notes), len(notes), nil
}

// RunCheck evaluates the given notes and applies lifecycle side effects.
//
// Alerts are collected fully in memory before any persistence side effect,
// so a store hiccup on one note cannot lose alerts from the rest of the
// batch. A note whose quote fetch fails with a transport error is excluded
// from this run entirely, including the checked-timestamp update; a note
// whose symbol simply resolves to no quote is still marked checked.
func (c *Checker) RunCheck(ctx context.Context, notes []models.Note) []models.Alert {
	start := c.now()

	var alerts []models.Alert
	alerted := make(map[string]bool, len(notes))
	failed := make(map[string]bool)

	for i := range notes {
		note := &notes[i]
		log := logging.WithNote(logging.WithSymbol(c.logger, note.Symbol), note.ID)

		price, err := c.provider.GetPriceInfo(ctx, note.Symbol)
		if err != nil {
			failed[note.ID] = true
			log.Warn().Err(err).Msg("Quote fetch failed, skipping note this run")
			continue
		}
		if price == nil {
			log.Info().Msg("No price info for symbol")
			continue
		}
		logging.LogQuote(c.logger, note.Symbol, price.CurrentPrice, nil)

		if alert := c.evaluator.Evaluate(note, price); alert != nil {
			alerts = append(alerts, *alert)
			alerted[note.ID] = true
			logging.LogAlert(c.logger, note.ID, note.Symbol, alert.CurrentPrice, alert.Reasons)
		}
	}

	checkedAt := c.now()
	for i := range notes {
		if failed[notes[i].ID] {
			continue
		}
		if err := c.store.UpdateLastChecked(ctx, notes[i].ID, checkedAt); err != nil {
			c.logger.Warn().Err(err).Str("note_id", notes[i].ID).Msg("Failed to record check timestamp")
		}
	}

	for id := range alerted {
		if err := c.store.Deactivate(ctx, id); err != nil {
			c.logger.Warn().Err(err).Str("note_id", id).Msg("Failed to deactivate alerted note")
		}
	}

	logging.LogCheck(c.logger, len(notes), len(alerts), c.now().Sub(start))
	return alerts
}
