// Package importer reads and writes word lists as xlsx workbooks or JSON
// arrays.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vytor/vocabflash/internal/models"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// SheetName is the sheet written by WriteXLSX.
const SheetName = "Sheet1"

// exampleSeparator joins example sentences inside one spreadsheet cell.
const exampleSeparator = "; "

// Header is the column layout of an exported workbook. Reading accepts the
// same order, with or without the header row.
var Header = []string{"word", "definition", "meaning", "examples", "level"}

// ParseFormat accepts "xlsx" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatJSON, "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("file %s has no extension", path)
	}
	return ParseFormat(ext)
}

// Read decodes words in format f.
func Read(r io.Reader, f Format) ([]models.Word, error) {
	switch f {
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// Write encodes words in format f.
func Write(w io.Writer, words []models.Word, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, words)
	case FormatJSON:
		return WriteJSON(w, words)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// ReadXLSX reads words from the first sheet of a workbook. Blank rows are
// skipped; fields are not validated here.
func ReadXLSX(r io.Reader) ([]models.Word, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	words := make([]models.Word, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if isBlank(row) {
			continue
		}
		words = append(words, models.Word{
			Word:             cell(row, 0),
			Definition:       cell(row, 1),
			Meaning:          cell(row, 2),
			ExampleSentences: splitExamples(cell(row, 3)),
			Level:            models.Level(cell(row, 4)),
		})
	}
	return words, nil
}

// WriteXLSX writes words to a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, words []models.Word) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, word := range words {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			word.Word,
			word.Definition,
			word.Meaning,
			strings.Join(word.ExampleSentences, exampleSeparator),
			string(word.Level),
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}

// jsonWord is the import/export shape of a word.
type jsonWord struct {
	Word             string   `json:"word"`
	Definition       string   `json:"definition"`
	Meaning          string   `json:"meaning"`
	ExampleSentences []string `json:"example_sentences"`
	Level            string   `json:"level"`
}

func ReadJSON(r io.Reader) ([]models.Word, error) {
	var in []jsonWord
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}
	words := make([]models.Word, 0, len(in))
	for _, w := range in {
		words = append(words, models.Word{
			Word:             w.Word,
			Definition:       w.Definition,
			Meaning:          w.Meaning,
			ExampleSentences: models.StringList(w.ExampleSentences),
			Level:            models.Level(w.Level),
		})
	}
	return words, nil
}

func WriteJSON(w io.Writer, words []models.Word) error {
	out := make([]jsonWord, 0, len(words))
	for _, word := range words {
		examples := []string(word.ExampleSentences)
		if examples == nil {
			examples = []string{}
		}
		out = append(out, jsonWord{
			Word:             word.Word,
			Definition:       word.Definition,
			Meaning:          word.Meaning,
			ExampleSentences: examples,
			Level:            string(word.Level),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isHeader(row []string) bool {
	return strings.EqualFold(cell(row, 0), Header[0])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func splitExamples(s string) models.StringList {
	examples := models.StringList{}
	for _, part := range strings.Split(s, strings.TrimSpace(exampleSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			examples = append(examples, part)
		}
	}
	return examples
}
