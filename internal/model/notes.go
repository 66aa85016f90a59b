package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NotePatch carries the incoming notes of a partial update. Clients have
// sent several shapes over time, all still accepted: a bare string, a
// single {text, timestamp} object, or an array mixing both. Unrecognized
// shapes decode to no candidates rather than an error.
type NotePatch []NoteCandidate

type NoteCandidate struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func (p *NotePatch) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*p = NotePatch{{Text: text}}
	case '{':
		candidate, ok := candidateFromObject(trimmed)
		if !ok {
			*p = nil
			return nil
		}
		*p = NotePatch{candidate}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		result := make(NotePatch, 0, len(items))
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 {
				continue
			}
			switch item[0] {
			case '"':
				var text string
				if err := json.Unmarshal(item, &text); err != nil {
					continue
				}
				result = append(result, NoteCandidate{Text: text})
			case '{':
				if candidate, ok := candidateFromObject(item); ok {
					result = append(result, candidate)
				}
			}
		}
		*p = result
	default:
		*p = nil
	}
	return nil
}

func candidateFromObject(data []byte) (NoteCandidate, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return NoteCandidate{}, false
	}
	rawText, ok := raw["text"]
	if !ok {
		return NoteCandidate{}, false
	}

	candidate := NoteCandidate{Text: coerceText(rawText)}
	if rawTimestamp, ok := raw["timestamp"]; ok {
		var timestamp string
		if err := json.Unmarshal(rawTimestamp, &timestamp); err == nil {
			candidate.Timestamp = timestamp
		}
	}
	return candidate, true
}

// coerceText keeps non-string text values usable instead of erroring.
func coerceText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(bytes.TrimSpace(raw))
}

// normalize trims the candidate and stamps a timestamp when the client sent
// none. Empty-after-trim candidates are dropped, not errors.
func (c NoteCandidate) normalize(now string) (Note, bool) {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return Note{}, false
	}
	timestamp := c.Timestamp
	if timestamp == "" {
		timestamp = now
	}
	return Note{Text: text, Timestamp: timestamp}, true
}

// Flag is a bool that tolerates the loose encodings older clients used for
// the archived field: true/false, 0/1, or "true"/"false".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	var value bool
	if err := json.Unmarshal(trimmed, &value); err == nil {
		*f = Flag(value)
		return nil
	}

	var number float64
	if err := json.Unmarshal(trimmed, &number); err == nil {
		*f = number != 0
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return err
		}
		*f = Flag(parsed)
		return nil
	}

	return json.Unmarshal(trimmed, (*bool)(f))
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}
