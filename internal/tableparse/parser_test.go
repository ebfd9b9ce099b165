package tableparse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

func TestParseNilInput(t *testing.T) {
	parser := NewParser()
	_, err := parser.Parse(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, forms.ErrInvalidInput))
}

func TestParseHeaderDetection(t *testing.T) {
	parser := NewParser()

	raw := [][][]string{{
		{"Name", "Amount", "Date"},
		{"Wages", "$45,000.00", "01/15/2024"},
		{"Bonus", "$2,500.00", "02/01/2024"},
	}}

	tables, err := parser.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table := tables[0]
	assert.True(t, table.HasHeader)
	assert.Equal(t, []string{"Name", "Amount", "Date"}, table.Headers)
	assert.Len(t, table.Rows, 2, "the header row is not a data row")
	assert.Equal(t, forms.ColumnTypeCurrency, table.ColumnTypes["Amount"])
	assert.Equal(t, forms.ColumnTypeDate, table.ColumnTypes["Date"])
	assert.Equal(t, forms.ColumnTypeText, table.ColumnTypes["Name"])
	assert.Equal(t, forms.TableTypeFinancial, table.TableType)
}

func TestParseHeaderlessGrid(t *testing.T) {
	parser := NewParser()

	raw := [][][]string{{
		{"1", "2"},
		{"3", "4"},
		{"5", "6"},
	}}

	tables, err := parser.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table := tables[0]
	assert.False(t, table.HasHeader)
	assert.Equal(t, []string{"Column1", "Column2"}, table.Headers)
	assert.Len(t, table.Rows, 3, "every input row survives when no header is detected")
}

func TestParseNeverDropsRows(t *testing.T) {
	parser := NewParser()

	// Ragged grid: rows are padded, never discarded.
	raw := [][][]string{{
		{"Item", "Quantity", "Price"},
		{"Widget", "2"},
		{"Gadget", "5", "$10.00", "extra"},
	}}

	tables, err := parser.Parse(raw)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table := tables[0]
	dataRows := len(table.Rows)
	if table.HasHeader {
		dataRows++
	}
	assert.Equal(t, 3, dataRows, "normalization must preserve the row count")
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Headers), "rows are padded to a uniform width")
	}
}

func TestParseSkipsEmptyGrids(t *testing.T) {
	parser := NewParser()

	tables, err := parser.Parse([][][]string{{}, {{"Name", "Amount"}, {"Fee", "$5.00"}}})
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestAggregate(t *testing.T) {
	table := forms.ParsedTable{
		Headers: []string{"Amount"},
		Rows:    [][]string{{"$100.00"}, {"$50.50"}},
	}

	sum, err := Aggregate(table, "Amount", OpSum)
	require.NoError(t, err)
	assert.InDelta(t, 150.50, sum, 1e-9, "currency symbols and separators are stripped before aggregation")

	avg, err := Aggregate(table, "Amount", OpAvg)
	require.NoError(t, err)
	assert.InDelta(t, 75.25, avg, 1e-9)

	min, err := Aggregate(table, "Amount", OpMin)
	require.NoError(t, err)
	assert.InDelta(t, 50.50, min, 1e-9)

	max, err := Aggregate(table, "Amount", OpMax)
	require.NoError(t, err)
	assert.InDelta(t, 100.00, max, 1e-9)

	count, err := Aggregate(table, "Amount", OpCount)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, count, 1e-9)
}

func TestAggregateMixedCells(t *testing.T) {
	table := forms.ParsedTable{
		Headers: []string{"Value"},
		Rows:    [][]string{{"1,234.56"}, {"n/a"}, {""}, {"$10.00"}},
	}

	sum, err := Aggregate(table, "Value", OpSum)
	require.NoError(t, err)
	assert.InDelta(t, 1244.56, sum, 1e-9, "non-numeric cells are skipped, not fatal")
}

func TestAggregateErrors(t *testing.T) {
	table := forms.ParsedTable{
		Headers: []string{"Name"},
		Rows:    [][]string{{"Alice"}, {"Bob"}},
	}

	_, err := Aggregate(table, "Missing", OpSum)
	assert.True(t, errors.Is(err, forms.ErrUnsupportedAggregation), "unknown column: %v", err)

	_, err = Aggregate(table, "Name", OpSum)
	assert.True(t, errors.Is(err, forms.ErrUnsupportedAggregation), "no numeric cells: %v", err)

	numeric := forms.ParsedTable{Headers: []string{"N"}, Rows: [][]string{{"1"}}}
	_, err = Aggregate(numeric, "N", AggregateOp("median"))
	assert.True(t, errors.Is(err, forms.ErrUnsupportedAggregation), "unknown operation: %v", err)
}

func TestFindTotals(t *testing.T) {
	table := forms.ParsedTable{
		Headers: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Wages", "$45,000.00"},
			{"Total Compensation", "$47,500.00"},
		},
	}

	totals := FindTotals(table)
	require.Contains(t, totals, "Amount")
	assert.InDelta(t, 47500.0, totals["Amount"], 1e-9)
}

func TestToDictList(t *testing.T) {
	table := forms.ParsedTable{
		Headers: []string{"Name", "Amount"},
		Rows:    [][]string{{"Fee", "$5.00"}, {"Tax"}},
	}

	dicts := ToDictList(table)
	require.Len(t, dicts, 2)
	assert.Equal(t, "Fee", dicts[0]["Name"])
	assert.Equal(t, "$5.00", dicts[0]["Amount"])
	assert.Equal(t, "", dicts[1]["Amount"], "short rows fill missing cells with empty strings")
}

func TestToMarkdown(t *testing.T) {
	table := forms.ParsedTable{
		Headers: []string{"Name", "Amount"},
		Rows:    [][]string{{"Fee", "$5.00"}},
	}

	md := ToMarkdown(table)
	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| Name | Amount |", lines[0])
	assert.Equal(t, "| --- | --- |", lines[1])
	assert.Equal(t, "| Fee | $5.00 |", lines[2])
}
