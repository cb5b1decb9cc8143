// Package evaluator implements the note condition engine: it decides, from a
// note and a live price snapshot, whether an alert fires and why.
package evaluator

import (
	"fmt"
	"math"
	"time"

	"stockwatch/internal/models"
)

// Evaluator applies a note's conditions to a price snapshot. It is pure:
// no I/O, no retained state between calls. The clock is injected so the
// time-based conditions are testable.
type Evaluator struct {
	now func() time.Time
}

// New creates an evaluator using the wall clock.
func New() *Evaluator {
	return &Evaluator{now: time.Now}
}

// NewWithClock creates an evaluator with a custom clock.
func NewWithClock(now func() time.Time) *Evaluator {
	return &Evaluator{now: now}
}

// Evaluate checks every configured condition on the note against the price
// snapshot. It returns one alert carrying a reason per triggered condition,
// in a fixed evaluation order, or nil when nothing triggered.
//
// Inactive or symbol-less notes return nil without inspecting conditions,
// as does a nil price snapshot. These are skips, not errors.
func (e *Evaluator) Evaluate(note *models.Note, price *models.PriceInfo) *models.Alert {
	if note == nil || note.Symbol == "" || !note.Active {
		return nil
	}
	if price == nil {
		return nil
	}

	current := price.CurrentPrice
	cond := note.Conditions

	var reasons []string

	if t, ok := threshold(cond.PriceAbove); ok && current >= t {
		reasons = append(reasons, fmt.Sprintf("Price crossed above $%.2f", t))
	}

	if t, ok := threshold(cond.PriceBelow); ok && current <= t {
		reasons = append(reasons, fmt.Sprintf("Price fell below $%.2f", t))
	}

	if r := cond.PriceBetween; r != nil && r.Min != 0 && r.Max != 0 &&
		r.Min <= current && current <= r.Max {
		reasons = append(reasons, fmt.Sprintf("Price is between $%.2f and $%.2f", r.Min, r.Max))
	}

	if t, ok := threshold(cond.PercentDrop); ok && note.BuyPrice != nil {
		change := percentChange(current, *note.BuyPrice)
		if change <= -t {
			reasons = append(reasons, fmt.Sprintf("Price dropped %.2f%% from buy price $%.2f",
				math.Abs(change), *note.BuyPrice))
		}
	}

	if t, ok := threshold(cond.PercentChange); ok && price.PreviousClose != nil {
		change := percentChange(current, *price.PreviousClose)
		if math.Abs(change) >= math.Abs(t) {
			direction := "up"
			if change < 0 {
				direction = "down"
			}
			reasons = append(reasons, fmt.Sprintf("Price changed %.2f%% %s from previous close",
				math.Abs(change), direction))
		}
	}

	if d, ok := dayCount(cond.ReminderDays); ok && e.daysSince(note.CreatedAt) >= d {
		reasons = append(reasons, fmt.Sprintf("Reminder: %d days have passed", d))
	}

	if d, ok := dayCount(cond.TimePeriodDays); ok && e.daysSince(note.CreatedAt) >= d {
		if note.BuyPrice != nil {
			if change := percentChange(current, *note.BuyPrice); change > 0 {
				reasons = append(reasons, fmt.Sprintf("Time period reached (%d days) and price is up %.2f%%",
					d, change))
			} else {
				reasons = append(reasons, fmt.Sprintf("Time period reached (%d days)", d))
			}
		} else {
			reasons = append(reasons, fmt.Sprintf("Time period reached (%d days)", d))
		}
	}

	if t, ok := threshold(cond.TrailingStop); ok && note.BuyPrice != nil && current <= t {
		reasons = append(reasons, fmt.Sprintf("Price hit trailing stop at $%.2f", t))
	}

	if len(reasons) == 0 {
		return nil
	}

	return &models.Alert{
		NoteID:       note.ID,
		Symbol:       note.Symbol,
		CurrentPrice: current,
		BuyPrice:     note.BuyPrice,
		Reasons:      reasons,
		RawText:      note.RawText,
		UserOpinion:  note.UserOpinion,
	}
}

// threshold reports a usable numeric condition value. A zero value is
// treated the same as an absent condition.
func threshold(v *float64) (float64, bool) {
	if v == nil || *v == 0 {
		return 0, false
	}
	return *v, true
}

// dayCount reports a usable day-count condition value.
func dayCount(v *int) (int, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// percentChange computes the percentage move from old to new.
func percentChange(newPrice, oldPrice float64) float64 {
	return (newPrice - oldPrice) / oldPrice * 100
}

// daysSince returns whole days elapsed since t.
func (e *Evaluator) daysSince(t time.Time) int {
	return int(e.now().Sub(t).Hours() / 24)
}
