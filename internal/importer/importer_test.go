package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/xuri/excelize/v2"
)

var sampleWords = []models.Word{
	{
		Word:             "apple",
		Definition:       "a round fruit",
		Meaning:          "elma",
		ExampleSentences: models.StringList{"I ate an apple.", "Apples are red"},
		Level:            models.LevelA1,
	},
	{
		Word:       "negotiate",
		Definition: "to discuss to reach an agreement",
		Meaning:    "müzakere etmek",
		Level:      models.LevelB2,
	},
}

func TestXLSXExportThenImport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleWords))

	words, err := ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, words, 2)

	assert.Equal(t, "apple", words[0].Word)
	assert.Equal(t, models.StringList{"I ate an apple.", "Apples are red"}, words[0].ExampleSentences)
	assert.Equal(t, models.LevelA1, words[0].Level)
	assert.Equal(t, "müzakere etmek", words[1].Meaning)
	assert.Equal(t, models.StringList{}, words[1].ExampleSentences)
}

func TestReadXLSX_WithoutHeaderSkipsBlankRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{" Run ", "move fast", "koşmak", "", "a1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"walk", "move slowly", "yürümek"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	words, err := ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "Run", words[0].Word)
	assert.Equal(t, models.Level("a1"), words[0].Level)
	assert.Equal(t, models.Level(""), words[1].Level, "missing cells read as empty")
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("definitely not a zip"))
	assert.Error(t, err)
}

func TestJSONExportThenImport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleWords))
	assert.Contains(t, buf.String(), `"example_sentences": []`)

	words, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, sampleWords[0].ExampleSentences, words[0].ExampleSentences)
	assert.Equal(t, models.LevelB2, words[1].Level)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/words.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = FormatFromPath("words.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatFromPath("words.csv")
	assert.Error(t, err)
	_, err = FormatFromPath("words")
	assert.Error(t, err)
}
