// Package parser extracts structured monitoring data from free-text notes.
package parser

import (
	"context"

	"stockwatch/internal/models"
)

// Parser turns a raw note into structured fields. Every field of the result
// is independently optional; downstream code must tolerate any subset.
type Parser interface {
	Parse(ctx context.Context, text string) (*models.ParsedNote, error)
}
