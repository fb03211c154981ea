package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Level is a CEFR proficiency tag.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// AllLevels lists every CEFR level from easiest to hardest.
var AllLevels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// ParseLevel accepts a level tag in any case.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllLevels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// ParseLevels parses a comma-separated level list. Empty input and "all"
// both expand to every level.
func ParseLevels(s string) ([]Level, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllLevels, nil
	}
	seen := map[Level]bool{}
	var levels []Level
	for _, part := range strings.Split(s, ",") {
		l, ok := ParseLevel(part)
		if !ok {
			return nil, fmt.Errorf("unknown level %q", strings.TrimSpace(part))
		}
		if !seen[l] {
			seen[l] = true
			levels = append(levels, l)
		}
	}
	return levels, nil
}

// StringList is a []string persisted as a JSON array.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src any) error {
	return scanJSON(src, (*[]string)(s))
}

type Word struct {
	ID               int64      `json:"id" db:"id"`
	Word             string     `json:"word" db:"word"`
	Definition       string     `json:"definition" db:"definition"`
	Meaning          string     `json:"meaning" db:"meaning"`
	ExampleSentences StringList `json:"example_sentences" db:"example_sentences"`
	Level            Level      `json:"level" db:"level"`
	CreatedBy        *int64     `json:"created_by,omitempty" db:"created_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Normalize trims every text field and lowercases the headword.
func (w *Word) Normalize() {
	w.Word = strings.ToLower(strings.TrimSpace(w.Word))
	w.Definition = strings.TrimSpace(w.Definition)
	w.Meaning = strings.TrimSpace(w.Meaning)
	examples := w.ExampleSentences[:0]
	for _, e := range w.ExampleSentences {
		if e = strings.TrimSpace(e); e != "" {
			examples = append(examples, e)
		}
	}
	w.ExampleSentences = examples
	if l, ok := ParseLevel(string(w.Level)); ok {
		w.Level = l
	}
}

type WordFilter struct {
	Level  Level
	Search string
	Limit  int
	Offset int
}

// ImportResult summarizes a bulk word import.
type ImportResult struct {
	Total    int      `json:"total"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
