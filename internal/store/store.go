// Package store provides note persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"stockwatch/internal/models"
)

// NoteStore defines the interface for note persistence.
type NoteStore interface {
	// InsertNote persists a new note.
	InsertNote(ctx context.Context, note *models.Note) error

	// GetActiveNotes returns all active notes, most recently created first.
	GetActiveNotes(ctx context.Context) ([]models.Note, error)

	// GetNotes returns all notes; inactive ones are included only when
	// includeInactive is set.
	GetNotes(ctx context.Context, includeInactive bool) ([]models.Note, error)

	// GetNoteByID returns a single note.
	GetNoteByID(ctx context.Context, id string) (*models.Note, error)

	// UpdateLastChecked records when a note was last evaluated.
	UpdateLastChecked(ctx context.Context, id string, checkedAt time.Time) error

	// Deactivate marks a note inactive so it is no longer evaluated.
	Deactivate(ctx context.Context, id string) error

	// Activate re-enables a previously deactivated note.
	Activate(ctx context.Context, id string) error

	// Deletion
	DeleteByID(ctx context.Context, id string) error
	DeleteBySymbol(ctx context.Context, symbol string) (int64, error)
	DeleteInactive(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)

	// Lifecycle
	Close() error
}
