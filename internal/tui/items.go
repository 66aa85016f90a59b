package tui

import (
	"fmt"

	"github.com/Joseda-hg/rememberbook/internal/model"
)

func formatIdeaSummary(idea model.Idea) string {
	return fmt.Sprintf("%s | u%d %s | %d notes", idea.Title, idea.Urgency, idea.Urgency.Label(), len(idea.Notes))
}

func formatNoteLine(note model.Note) string {
	if note.Timestamp == "" {
		return note.Text
	}
	return fmt.Sprintf("%s (%s)", note.Text, note.Timestamp)
}
