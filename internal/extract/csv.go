package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// CSVExtractor treats the whole file as one raw table grid. The flattened
// "Header: value" text keeps row contents findable by text retrieval.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	result := &Result{
		Kind: forms.FileKindCSV,
		Metadata: map[string]string{
			"rows": strconv.Itoa(len(records)),
		},
	}
	if len(records) == 0 {
		return result, nil
	}
	result.Tables = [][][]string{records}
	result.Text = flattenRecords(records)
	return result, nil
}

func flattenRecords(records [][]string) string {
	headers := records[0]
	var b strings.Builder
	for _, row := range records[1:] {
		for i, cell := range row {
			if i > 0 {
				b.WriteString(", ")
			}
			if i < len(headers) {
				b.WriteString(headers[i])
				b.WriteString(": ")
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
