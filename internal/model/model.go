package model

import "time"

// TimestampFormat is the wire and storage format for all date fields.
// Fixed-width fractional seconds keep lexicographic order equal to
// chronological order, which ListIdeas relies on.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Now returns the current UTC time in TimestampFormat.
func Now() string {
	return time.Now().UTC().Format(TimestampFormat)
}

// Urgency is the severity rating of an idea, 1 (lowest) to 5 (immediate).
type Urgency int

const (
	UrgencyNotImportant Urgency = 1
	UrgencyLow          Urgency = 2
	UrgencyMedium       Urgency = 3
	UrgencyHigh         Urgency = 4
	UrgencyImmediate    Urgency = 5
)

func (u Urgency) Valid() bool {
	return u >= UrgencyNotImportant && u <= UrgencyImmediate
}

func (u Urgency) Label() string {
	switch u {
	case UrgencyNotImportant:
		return "Not Important"
	case UrgencyLow:
		return "Low"
	case UrgencyMedium:
		return "Medium"
	case UrgencyHigh:
		return "High"
	case UrgencyImmediate:
		return "Immediate"
	default:
		return "Unknown"
	}
}

// Urgencies lists all valid levels in ascending order.
func Urgencies() []Urgency {
	return []Urgency{UrgencyNotImportant, UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyImmediate}
}

type Idea struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Notes       []Note  `json:"notes"`
	Urgency     Urgency `json:"urgency"`
	Archived    bool    `json:"archived"`
	CreatedDate string  `json:"created_date"`
	UpdatedDate string  `json:"updated_date"`
}

// Note is a timestamped annotation. Notes are append-only: the API never
// edits or removes one.
type Note struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// IdeaPatch is a partial update. Nil fields are left untouched; notes are
// appended, never replaced.
type IdeaPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Notes       NotePatch `json:"notes"`
	Urgency     *Urgency  `json:"urgency"`
	Archived    *Flag     `json:"archived"`
}

func (p IdeaPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Notes == nil && p.Urgency == nil && p.Archived == nil
}

// Apply merges the patch into the idea and refreshes UpdatedDate.
// Urgency range is the caller's responsibility here; only create validates.
func (i *Idea) Apply(patch IdeaPatch, now string) {
	if patch.Title != nil {
		i.Title = *patch.Title
	}
	if patch.Description != nil {
		i.Description = *patch.Description
	}
	for _, candidate := range patch.Notes {
		note, ok := candidate.normalize(now)
		if !ok {
			continue
		}
		i.Notes = append(i.Notes, note)
	}
	if patch.Urgency != nil {
		i.Urgency = *patch.Urgency
	}
	if patch.Archived != nil {
		i.Archived = bool(*patch.Archived)
	}
	i.UpdatedDate = now
}

// ListFilter selects which ideas a listing surface shows. Filtering happens
// in the caller-visible layer, not in storage.
type ListFilter int

const (
	FilterActiveOnly ListFilter = iota
	FilterAll
	FilterArchivedOnly
)

func (f ListFilter) Apply(ideas []Idea) []Idea {
	result := make([]Idea, 0, len(ideas))
	for _, idea := range ideas {
		switch f {
		case FilterArchivedOnly:
			if !idea.Archived {
				continue
			}
		case FilterActiveOnly:
			if idea.Archived {
				continue
			}
		}
		result = append(result, idea)
	}
	return result
}
