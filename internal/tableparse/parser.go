// Package tableparse normalizes raw table grids into header-aware, typed
// tables and supports column aggregation.
package tableparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// AggregateOp names a supported column aggregation.
type AggregateOp string

const (
	OpSum   AggregateOp = "sum"
	OpAvg   AggregateOp = "avg"
	OpMin   AggregateOp = "min"
	OpMax   AggregateOp = "max"
	OpCount AggregateOp = "count"
)

var numericCleaner = regexp.MustCompile(`[$,€£%\s]`)

var datePattern = regexp.MustCompile(`^(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2})$`)

var currencyCell = regexp.MustCompile(`^[-(]?\$[\d,]+(?:\.\d{1,2})?\)?$`)

// Header vocabulary used as one of the header-detection signals.
var commonHeaderTerms = []string{
	"name", "date", "amount", "total", "description", "id", "number",
	"quantity", "price", "item", "type", "status", "value", "count",
}

// Parser turns raw string grids into ParsedTable values.
type Parser struct{}

// NewParser creates a table parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse normalizes each raw grid, detects headers, and infers column types.
// Empty grids are skipped; a nil input is a caller error.
func (p *Parser) Parse(rawTables [][][]string) ([]forms.ParsedTable, error) {
	if rawTables == nil {
		return nil, fmt.Errorf("%w: nil table input", forms.ErrInvalidInput)
	}

	parsed := make([]forms.ParsedTable, 0, len(rawTables))
	for _, raw := range rawTables {
		if len(raw) == 0 {
			continue
		}

		grid := normalizeGrid(raw)
		if len(grid) == 0 {
			continue
		}

		hasHeader, headers := detectHeaders(grid)
		rows := grid
		if hasHeader {
			rows = grid[1:]
		} else {
			headers = syntheticHeaders(len(grid[0]))
		}

		table := forms.ParsedTable{
			Headers:   headers,
			Rows:      rows,
			HasHeader: hasHeader,
		}
		table.ColumnTypes = inferColumnTypes(headers, rows)
		table.TableType = inferTableType(headers)
		parsed = append(parsed, table)
	}
	return parsed, nil
}

// normalizeGrid trims cells and pads rows to a uniform column count.
func normalizeGrid(raw [][]string) [][]string {
	maxCols := 0
	for _, row := range raw {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	if maxCols == 0 {
		return nil
	}

	grid := make([][]string, 0, len(raw))
	for _, row := range raw {
		clean := make([]string, maxCols)
		for i, cell := range row {
			clean[i] = strings.TrimSpace(cell)
		}
		grid = append(grid, clean)
	}
	return grid
}

func syntheticHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = fmt.Sprintf("Column%d", i+1)
	}
	return headers
}

// detectHeaders scores the first row on several signals: mostly non-numeric
// cells, a type shift against the following rows, known header vocabulary,
// and the first row's cell pattern not repeating elsewhere in the grid.
func detectHeaders(grid [][]string) (bool, []string) {
	if len(grid) < 2 {
		return false, nil
	}

	first := grid[0]
	score := 0

	textRatio := cellRatio(first, func(c string) bool { return c != "" && !isNumeric(c) })
	if textRatio > 0.5 {
		score++
	}

	secondNumeric := cellRatio(grid[1], func(c string) bool { return c != "" && isNumeric(c) })
	if secondNumeric > textRatio {
		score++
	}

	for _, cell := range first {
		lower := strings.ToLower(cell)
		matched := false
		for _, term := range commonHeaderTerms {
			if strings.Contains(lower, term) {
				score++
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	if len(grid) > 2 {
		var sum float64
		for _, row := range grid[1:] {
			sum += cellRatio(row, func(c string) bool { return isNumeric(c) })
		}
		avgNumeric := sum / float64(len(grid)-1)
		firstNumeric := cellRatio(first, func(c string) bool { return isNumeric(c) })
		if firstNumeric < avgNumeric-0.2 {
			score++
		}
	}

	// A first row repeated verbatim elsewhere is data, not a header.
	for _, row := range grid[1:] {
		if sameCells(first, row) {
			return false, nil
		}
	}

	if score >= 2 {
		return true, first
	}
	return false, nil
}

func sameCells(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cellRatio(row []string, pred func(string) bool) float64 {
	if len(row) == 0 {
		return 0
	}
	n := 0
	for _, cell := range row {
		if pred(cell) {
			n++
		}
	}
	return float64(n) / float64(len(row))
}

// inferColumnTypes samples all non-empty cells per column and assigns the
// majority type, preferring number over currency over date on ties.
func inferColumnTypes(headers []string, rows [][]string) map[string]forms.ColumnType {
	types := make(map[string]forms.ColumnType, len(headers))

	for i, header := range headers {
		counts := map[forms.ColumnType]int{}
		for _, row := range rows {
			if i >= len(row) || row[i] == "" {
				continue
			}
			counts[cellType(row[i])]++
		}

		// Tie precedence: number > currency > date > text.
		best := forms.ColumnTypeText
		bestCount := counts[forms.ColumnTypeText]
		for _, ct := range []forms.ColumnType{forms.ColumnTypeDate, forms.ColumnTypeCurrency, forms.ColumnTypeNumber} {
			if counts[ct] >= bestCount && counts[ct] > 0 {
				best = ct
				bestCount = counts[ct]
			}
		}
		types[header] = best
	}
	return types
}

func cellType(cell string) forms.ColumnType {
	switch {
	case currencyCell.MatchString(cell):
		return forms.ColumnTypeCurrency
	case isNumeric(cell):
		return forms.ColumnTypeNumber
	case datePattern.MatchString(cell):
		return forms.ColumnTypeDate
	default:
		return forms.ColumnTypeText
	}
}

func isNumeric(cell string) bool {
	if cell == "" {
		return false
	}
	_, err := strconv.ParseFloat(numericCleaner.ReplaceAllString(cell, ""), 64)
	return err == nil
}

// inferTableType categorizes the table from its header vocabulary.
func inferTableType(headers []string) forms.TableType {
	joined := strings.ToLower(strings.Join(headers, " "))

	switch {
	case containsAny(joined, "amount", "total", "price", "cost", "balance"):
		return forms.TableTypeFinancial
	case containsAny(joined, "name", "email", "phone", "address"):
		return forms.TableTypeContact
	case containsAny(joined, "date", "time", "schedule", "due"):
		return forms.TableTypeSchedule
	case containsAny(joined, "item", "quantity", "stock", "product"):
		return forms.TableTypeInventory
	default:
		return forms.TableTypeGeneral
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// ToDictList converts a table into one map per row, keyed by header.
func ToDictList(table forms.ParsedTable) []map[string]string {
	out := make([]map[string]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		entry := make(map[string]string, len(table.Headers))
		for i, header := range table.Headers {
			if i < len(row) {
				entry[header] = row[i]
			} else {
				entry[header] = ""
			}
		}
		out = append(out, entry)
	}
	return out
}

// Aggregate computes sum, avg, min, max or count over a column's
// numeric-coercible cells. Currency symbols and thousands separators are
// stripped, so "$1,234.56" and "1234.56" aggregate identically. It fails
// when the column does not exist, the operator is unknown, or no cell
// coerces to a number.
func Aggregate(table forms.ParsedTable, column string, op AggregateOp) (float64, error) {
	idx := table.ColumnIndex(column)
	if idx < 0 {
		return 0, fmt.Errorf("%w: column %q not found", forms.ErrUnsupportedAggregation, column)
	}

	var values []float64
	for _, row := range table.Rows {
		if idx >= len(row) {
			continue
		}
		cleaned := numericCleaner.ReplaceAllString(row[idx], "")
		if cleaned == "" {
			continue
		}
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		return 0, fmt.Errorf("%w: column %q has no numeric values", forms.ErrUnsupportedAggregation, column)
	}

	switch op {
	case OpSum:
		return sum(values), nil
	case OpAvg:
		return sum(values) / float64(len(values)), nil
	case OpMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m, nil
	case OpMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m, nil
	case OpCount:
		return float64(len(values)), nil
	default:
		return 0, fmt.Errorf("%w: unknown operation %q", forms.ErrUnsupportedAggregation, op)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// FindTotals locates rows whose first cell mentions "total" and returns the
// numeric cells of those rows keyed by header.
func FindTotals(table forms.ParsedTable) map[string]float64 {
	totals := make(map[string]float64)
	for _, row := range table.Rows {
		if len(row) == 0 || !strings.Contains(strings.ToLower(row[0]), "total") {
			continue
		}
		for i, header := range table.Headers {
			if i >= len(row) {
				continue
			}
			cleaned := numericCleaner.ReplaceAllString(row[i], "")
			if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
				totals[header] = v
			}
		}
	}
	return totals
}

// ToMarkdown renders the table as a GitHub-style markdown table.
func ToMarkdown(table forms.ParsedTable) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(table.Headers, " | ") + " |\n")
	seps := make([]string, len(table.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")

	for _, row := range table.Rows {
		cells := make([]string, len(table.Headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}
