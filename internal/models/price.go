package models

import "time"

// PriceInfo is an evaluation-time price snapshot. Not persisted.
type PriceInfo struct {
	Symbol        string
	CurrentPrice  float64
	PreviousClose *float64
	Timestamp     time.Time
}

// Alert is the evaluator's output for one note: every triggered condition
// contributes one reason, in evaluation order. Ephemeral, rendered and dropped.
type Alert struct {
	NoteID       string   `json:"note_id"`
	Symbol       string   `json:"symbol"`
	CurrentPrice float64  `json:"current_price"`
	BuyPrice     *float64 `json:"buy_price,omitempty"`
	Reasons      []string `json:"reasons"`
	RawText      string   `json:"raw_text"`
	UserOpinion  string   `json:"user_opinion,omitempty"`
}

// ParsedNote is the structured result of running free text through the
// parser. All fields are independently optional.
type ParsedNote struct {
	Symbol      string
	ActionType  ActionType
	BuyPrice    *float64
	Conditions  Conditions
	UserOpinion string
}
