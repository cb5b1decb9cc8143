// Package models defines the core data types for the stock watch agent.
package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionType classifies the user's intent for a note. Informational only;
// evaluation never branches on it.
type ActionType string

const (
	ActionBuy     ActionType = "buy"
	ActionHold    ActionType = "hold"
	ActionWatch   ActionType = "watch"
	ActionSell    ActionType = "sell"
	ActionReview  ActionType = "review"
	ActionUnknown ActionType = "unknown"
)

// ParseActionType maps a free-form action string onto a known ActionType.
func ParseActionType(s string) ActionType {
	switch ActionType(strings.ToLower(strings.TrimSpace(s))) {
	case ActionBuy, ActionHold, ActionWatch, ActionSell, ActionReview:
		return ActionType(strings.ToLower(strings.TrimSpace(s)))
	default:
		return ActionUnknown
	}
}

// PriceRange is a closed price interval, used by the price_between condition.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Conditions holds the optional alerting predicates attached to a note.
// Every field is independently optional; a nil field is simply not evaluated.
//
// PercentAboveBuy is accepted from the parser and persisted, but is not
// evaluated yet. It stays in the type so stored notes keep the value.
type Conditions struct {
	PriceAbove      *float64    `json:"price_above,omitempty"`
	PriceBelow      *float64    `json:"price_below,omitempty"`
	PriceBetween    *PriceRange `json:"price_between,omitempty"`
	PercentDrop     *float64    `json:"percent_drop,omitempty"`
	PercentChange   *float64    `json:"percent_change,omitempty"`
	PercentAboveBuy *float64    `json:"percent_above_buy,omitempty"`
	ReminderDays    *int        `json:"reminder_days,omitempty"`
	TimePeriodDays  *int        `json:"time_period_days,omitempty"`
	TrailingStop    *float64    `json:"trailing_stop,omitempty"`
}

// IsZero reports whether no predicate is set.
func (c Conditions) IsZero() bool {
	return c.PriceAbove == nil && c.PriceBelow == nil && c.PriceBetween == nil &&
		c.PercentDrop == nil && c.PercentChange == nil && c.PercentAboveBuy == nil &&
		c.ReminderDays == nil && c.TimePeriodDays == nil && c.TrailingStop == nil
}

// MarshalBlob serializes the conditions for storage. An empty set serializes
// to an empty string so the column stays NULL-ish for condition-less notes.
func (c Conditions) MarshalBlob() string {
	if c.IsZero() {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// ConditionsFromBlob decodes a stored conditions blob. Malformed blobs decode
// to the zero value; a bad row must never poison evaluation.
func ConditionsFromBlob(blob string) Conditions {
	var c Conditions
	if blob == "" {
		return c
	}
	if err := json.Unmarshal([]byte(blob), &c); err != nil {
		return Conditions{}
	}
	return c
}

// Note is a persisted monitoring request. Born active, deactivated once its
// conditions fire an alert.
type Note struct {
	ID          string
	RawText     string
	Symbol      string
	ActionType  ActionType
	BuyPrice    *float64
	Conditions  Conditions
	UserOpinion string
	CreatedAt   time.Time
	LastChecked *time.Time
	Active      bool
}

// NewNote creates a note with a generated ID and creation timestamp.
func NewNote(rawText, symbol string, action ActionType, buyPrice *float64, conditions Conditions, opinion string) *Note {
	return &Note{
		ID:          uuid.NewString(),
		RawText:     rawText,
		Symbol:      NormalizeSymbol(symbol),
		ActionType:  action,
		BuyPrice:    buyPrice,
		Conditions:  conditions,
		UserOpinion: opinion,
		CreatedAt:   time.Now(),
		Active:      true,
	}
}

// NormalizeSymbol uppercases a ticker and strips currency prefixes and
// surrounding whitespace.
func NormalizeSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	s = strings.TrimPrefix(s, "$")
	return strings.ToUpper(s)
}
