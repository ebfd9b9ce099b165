package forms

// ColumnType is the inferred type of a table column.
type ColumnType string

const (
	ColumnTypeText     ColumnType = "text"
	ColumnTypeNumber   ColumnType = "number"
	ColumnTypeCurrency ColumnType = "currency"
	ColumnTypeDate     ColumnType = "date"
)

// TableType categorizes what a table appears to describe.
type TableType string

const (
	TableTypeFinancial TableType = "financial"
	TableTypeContact   TableType = "contact"
	TableTypeSchedule  TableType = "schedule"
	TableTypeInventory TableType = "inventory"
	TableTypeGeneral   TableType = "general"
)

// ParsedTable is a normalized grid with headers and typed columns.
// Every row has exactly len(Headers) cells.
type ParsedTable struct {
	Headers     []string              `json:"headers"`
	Rows        [][]string            `json:"rows"`
	ColumnTypes map[string]ColumnType `json:"column_types"`
	HasHeader   bool                  `json:"has_header"`
	TableType   TableType             `json:"table_type"`
}

// ColumnIndex returns the position of a header, or -1 when absent.
func (t *ParsedTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}
