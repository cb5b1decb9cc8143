package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// SQLiteStore implements NoteStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based note store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the notes table and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stock_notes (
		id TEXT PRIMARY KEY,
		raw_text TEXT NOT NULL,
		symbol TEXT NOT NULL,
		action_type TEXT,
		buy_price REAL,
		conditions TEXT,
		user_opinion TEXT,
		created_at DATETIME NOT NULL,
		last_checked DATETIME,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_notes_active ON stock_notes(active);
	CREATE INDEX IF NOT EXISTS idx_notes_symbol ON stock_notes(symbol);
	`

	_, err := s.db.Exec(schema)
	return err
}

// InsertNote persists a new note. Notes without a symbol are rejected here;
// the evaluator never sees them.
func (s *SQLiteStore) InsertNote(ctx context.Context, note *models.Note) error {
	if note.Symbol == "" {
		return errors.ErrNoSymbol
	}

	active := 0
	if note.Active {
		active = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_notes (id, raw_text, symbol, action_type, buy_price, conditions,
			user_opinion, created_at, last_checked, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, note.ID, note.RawText, note.Symbol, string(note.ActionType), note.BuyPrice,
		note.Conditions.MarshalBlob(), note.UserOpinion, note.CreatedAt, note.LastChecked, active)
	if err != nil {
		return errors.NewStoreError("insert", note.ID, err)
	}
	return nil
}

const noteColumns = `id, raw_text, symbol, action_type, buy_price, conditions,
	user_opinion, created_at, last_checked, active`

// GetActiveNotes retrieves all active notes, most recently created first.
func (s *SQLiteStore) GetActiveNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM stock_notes WHERE active = 1 ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, errors.NewStoreError("get_active", "", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetNotes retrieves notes, optionally including inactive ones.
func (s *SQLiteStore) GetNotes(ctx context.Context, includeInactive bool) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM stock_notes ORDER BY created_at DESC`
	if !includeInactive {
		query = `SELECT ` + noteColumns + ` FROM stock_notes WHERE active = 1 ORDER BY created_at DESC`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStoreError("get_notes", "", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetNoteByID retrieves a single note by its identifier.
func (s *SQLiteStore) GetNoteByID(ctx context.Context, id string) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM stock_notes WHERE id = ?
	`, id)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNoteNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get_by_id", id, err)
	}
	return note, nil
}

// UpdateLastChecked records when a note was last evaluated.
func (s *SQLiteStore) UpdateLastChecked(ctx context.Context, id string, checkedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE stock_notes SET last_checked = ? WHERE id = ?
	`, checkedAt, id)
	if err != nil {
		return errors.NewStoreError("update_last_checked", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.ErrNoteNotFound
	}
	return nil
}

// Deactivate marks a note inactive.
func (s *SQLiteStore) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, 0)
}

// Activate re-enables a note.
func (s *SQLiteStore) Activate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, 1)
}

func (s *SQLiteStore) setActive(ctx context.Context, id string, active int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE stock_notes SET active = ? WHERE id = ?
	`, active, id)
	if err != nil {
		return errors.NewStoreError("set_active", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.ErrNoteNotFound
	}
	return nil
}

// DeleteByID removes a single note.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM stock_notes WHERE id = ?`, id)
	if err != nil {
		return errors.NewStoreError("delete", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.ErrNoteNotFound
	}
	return nil
}

// DeleteBySymbol removes every note for a symbol and returns the count.
func (s *SQLiteStore) DeleteBySymbol(ctx context.Context, symbol string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM stock_notes WHERE symbol = ?`,
		models.NormalizeSymbol(symbol))
	if err != nil {
		return 0, errors.NewStoreError("delete_by_symbol", "", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// DeleteInactive removes all deactivated notes and returns the count.
func (s *SQLiteStore) DeleteInactive(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM stock_notes WHERE active = 0`)
	if err != nil {
		return 0, errors.NewStoreError("delete_inactive", "", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// DeleteAll removes every note and returns the count.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM stock_notes`)
	if err != nil {
		return 0, errors.NewStoreError("delete_all", "", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		note        models.Note
		actionType  sql.NullString
		buyPrice    sql.NullFloat64
		conditions  sql.NullString
		userOpinion sql.NullString
		lastChecked sql.NullTime
		active      int
	)

	err := row.Scan(&note.ID, &note.RawText, &note.Symbol, &actionType, &buyPrice,
		&conditions, &userOpinion, &note.CreatedAt, &lastChecked, &active)
	if err != nil {
		return nil, err
	}

	if actionType.Valid {
		note.ActionType = models.ParseActionType(actionType.String)
	}
	if buyPrice.Valid {
		note.BuyPrice = &buyPrice.Float64
	}
	if conditions.Valid {
		note.Conditions = models.ConditionsFromBlob(conditions.String)
	}
	if userOpinion.Valid {
		note.UserOpinion = userOpinion.String
	}
	if lastChecked.Valid {
		note.LastChecked = &lastChecked.Time
	}
	note.Active = active == 1

	return &note, nil
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	var notes []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}
