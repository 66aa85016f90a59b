package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Joseda-hg/rememberbook/internal/model"
)

var (
	// ErrNotFound signals an operation addressed an id with no row behind it.
	ErrNotFound = errors.New("idea not found")
	// ErrInvalidUrgency signals an urgency outside 1..5 on create.
	ErrInvalidUrgency = errors.New("urgency must be between 1 and 5")
)

// Store owns all idea records. Every operation opens its own statement
// scope and finishes synchronously; the read-modify-write in UpdateIdea is
// not guarded against a concurrent writer on the same id (last write wins).
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

const ideaColumns = "id, title, description, notes, urgency, archived, created_date, updated_date"

func (s *Store) CreateIdea(ctx context.Context, title, description string, urgency model.Urgency) (model.Idea, error) {
	if !urgency.Valid() {
		return model.Idea{}, fmt.Errorf("%w: got %d", ErrInvalidUrgency, urgency)
	}

	timestamp := now()
	idea := model.Idea{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Notes:       []model.Note{},
		Urgency:     urgency,
		CreatedDate: timestamp,
		UpdatedDate: timestamp,
	}

	notes, err := encodeNotes(idea.Notes)
	if err != nil {
		return model.Idea{}, err
	}

	_, err = s.DB.ExecContext(ctx,
		"INSERT INTO ideas ("+ideaColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		idea.ID, idea.Title, idea.Description, notes, int64(idea.Urgency), boolToInt(idea.Archived), idea.CreatedDate, idea.UpdatedDate,
	)
	if err != nil {
		return model.Idea{}, err
	}

	return idea, nil
}

func (s *Store) GetIdea(ctx context.Context, id string) (model.Idea, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+ideaColumns+" FROM ideas WHERE id = ?", id)
	idea, err := scanIdea(row)
	if err == sql.ErrNoRows {
		return model.Idea{}, ErrNotFound
	}
	if err != nil {
		return model.Idea{}, err
	}
	return idea, nil
}

// ListIdeas returns every record, newest first. Archived filtering belongs
// to the caller-visible layer.
func (s *Store) ListIdeas(ctx context.Context) ([]model.Idea, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT "+ideaColumns+" FROM ideas ORDER BY created_date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ideas := make([]model.Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

func (s *Store) UpdateIdea(ctx context.Context, id string, patch model.IdeaPatch) (model.Idea, error) {
	idea, err := s.GetIdea(ctx, id)
	if err != nil {
		return model.Idea{}, err
	}

	idea.Apply(patch, now())

	notes, err := encodeNotes(idea.Notes)
	if err != nil {
		return model.Idea{}, err
	}

	_, err = s.DB.ExecContext(ctx,
		"UPDATE ideas SET title = ?, description = ?, notes = ?, urgency = ?, archived = ?, updated_date = ? WHERE id = ?",
		idea.Title, idea.Description, notes, int64(idea.Urgency), boolToInt(idea.Archived), idea.UpdatedDate, idea.ID,
	)
	if err != nil {
		return model.Idea{}, err
	}

	return idea, nil
}

func (s *Store) DeleteIdea(ctx context.Context, id string) (bool, error) {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM ideas WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(1) FROM ideas").Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// Seed inserts the starter ideas on a first run.
func (s *Store) Seed(ctx context.Context) error {
	samples := []struct {
		title       string
		description string
		urgency     model.Urgency
	}{
		{"Learn Python", "Start with basic syntax and data structures", model.UrgencyHigh},
		{"Buy groceries", "Milk, bread, eggs, and vegetables", model.UrgencyMedium},
		{"Call mom", "Weekly check-in call", model.UrgencyLow},
	}

	for _, sample := range samples {
		if _, err := s.CreateIdea(ctx, sample.title, sample.description, sample.urgency); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (model.Idea, error) {
	var idea model.Idea
	var rawNotes string
	var urgency int64
	var archived int64

	err := row.Scan(&idea.ID, &idea.Title, &idea.Description, &rawNotes, &urgency, &archived, &idea.CreatedDate, &idea.UpdatedDate)
	if err != nil {
		return model.Idea{}, err
	}

	idea.Urgency = model.Urgency(urgency)
	idea.Archived = archived != 0
	idea.Notes = decodeNotes(rawNotes, now())
	return idea, nil
}

// decodeNotes normalizes the persisted notes column to the canonical
// list-of-{text, timestamp} shape. Older database files hold a bare string,
// a list of strings, or a single object; anything unparsable is kept as one
// plain-text note instead of being surfaced as an error. The write path
// always stores the canonical form, so this runs only on read.
func decodeNotes(raw string, readTime string) []model.Note {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return []model.Note{}
		}
		return []model.Note{{Text: trimmed, Timestamp: readTime}}
	}

	switch value := parsed.(type) {
	case []any:
		notes := make([]model.Note, 0, len(value))
		for _, item := range value {
			switch entry := item.(type) {
			case map[string]any:
				if note, ok := noteFromObject(entry, readTime); ok {
					notes = append(notes, note)
				}
			case string:
				if text := strings.TrimSpace(entry); text != "" {
					notes = append(notes, model.Note{Text: text, Timestamp: readTime})
				}
			}
		}
		return notes
	case map[string]any:
		if note, ok := noteFromObject(value, readTime); ok {
			return []model.Note{note}
		}
		return []model.Note{}
	case string:
		if text := strings.TrimSpace(value); text != "" {
			return []model.Note{{Text: text, Timestamp: readTime}}
		}
		return []model.Note{}
	default:
		return []model.Note{}
	}
}

func noteFromObject(entry map[string]any, readTime string) (model.Note, bool) {
	rawText, ok := entry["text"]
	if !ok {
		return model.Note{}, false
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", rawText))
	if text == "" {
		return model.Note{}, false
	}

	timestamp, _ := entry["timestamp"].(string)
	if timestamp == "" {
		timestamp = readTime
	}
	return model.Note{Text: text, Timestamp: timestamp}, true
}

func encodeNotes(notes []model.Note) (string, error) {
	if notes == nil {
		notes = []model.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return "", fmt.Errorf("encode notes: %w", err)
	}
	return string(data), nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func now() string {
	return model.Now()
}
