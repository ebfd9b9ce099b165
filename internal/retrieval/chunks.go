package retrieval

import (
	"fmt"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// ChunkSource says which part of a document a chunk came from.
type ChunkSource string

const (
	SourceField ChunkSource = "field"
	SourceTable ChunkSource = "table"
	SourceText  ChunkSource = "text"
)

// Chunk is one retrievable unit of a document.
type Chunk struct {
	Text      string      `json:"text"`
	Source    ChunkSource `json:"source"`
	FieldName string      `json:"fieldName,omitempty"`
	TableIdx  int         `json:"tableIndex,omitempty"`
	RowIdx    int         `json:"rowIndex,omitempty"`
	DocID     string      `json:"docId,omitempty"`
	Score     float64     `json:"score"`
}

// WindowConfig controls how free text is sliced into overlapping windows.
type WindowConfig struct {
	Size    int
	Overlap int
}

// DefaultWindowConfig matches the retriever defaults.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{Size: 300, Overlap: 50}
}

// BuildChunks turns a document into its retrievable chunks: one per field,
// one per table row, and overlapping windows over the raw text. Field chunks
// come first so that ties between a field and the text window containing it
// resolve to the field.
func BuildChunks(doc *forms.FormDocument, window WindowConfig) []Chunk {
	if doc == nil {
		return nil
	}
	var chunks []Chunk

	if doc.Fields != nil {
		doc.Fields.Range(func(name string, value forms.FieldValue) bool {
			chunks = append(chunks, Chunk{
				Text:      name + ": " + value.Raw,
				Source:    SourceField,
				FieldName: name,
				DocID:     doc.SourceID,
			})
			return true
		})
	}

	for ti, table := range doc.Tables {
		for ri, row := range table.Rows {
			chunks = append(chunks, Chunk{
				Text:     renderRow(table.Headers, row),
				Source:   SourceTable,
				TableIdx: ti,
				RowIdx:   ri,
				DocID:    doc.SourceID,
			})
		}
	}

	for _, text := range windows(doc.RawText, window) {
		chunks = append(chunks, Chunk{
			Text:   text,
			Source: SourceText,
			DocID:  doc.SourceID,
		})
	}
	return chunks
}

// renderRow flattens one table row into "Header=Value" pairs so that both
// the column name and the cell content participate in matching.
func renderRow(headers []string, row []string) string {
	parts := make([]string, 0, len(row))
	for i, cell := range row {
		if i < len(headers) && headers[i] != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", headers[i], cell))
		} else {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, ", ")
}

// windows slices text into overlapping word windows. A window carries
// roughly size characters and successive windows share overlap characters
// worth of trailing words, so sentences spanning a boundary stay findable.
func windows(text string, cfg WindowConfig) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if cfg.Size <= 0 {
		cfg = DefaultWindowConfig()
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		cfg.Overlap = cfg.Size / 6
	}
	if len(text) <= cfg.Size {
		return []string{text}
	}

	words := strings.Fields(text)
	var out []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		out = append(out, strings.Join(current, " "))

		// Seed the next window with the trailing words covering the
		// overlap budget.
		var carry []string
		carryLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			w := current[i]
			if carryLen+len(w)+1 > cfg.Overlap {
				break
			}
			carry = append([]string{w}, carry...)
			carryLen += len(w) + 1
		}
		current = carry
		currentLen = carryLen
	}

	for _, w := range words {
		if currentLen+len(w)+1 > cfg.Size && len(current) > 0 {
			flush()
		}
		current = append(current, w)
		currentLen += len(w) + 1
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}
