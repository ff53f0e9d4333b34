package tables

import (
	"enrollment-backend/db/models"
)

// Schema is the ordered column list of a table.
type Schema struct {
	Name    string
	Columns []string
}

var (
	ApplicantSchema = Schema{Name: "applicants", Columns: models.ApplicantColumns}
	AccountSchema   = Schema{Name: "accounts", Columns: models.AccountColumns}
	DocumentSchema  = Schema{Name: "documents", Columns: models.DocumentColumns}
)

// Row maps column name to cell text.
type Row map[string]string

// Table is a whole delimited file held in memory. Columns always starts with
// the schema columns; columns found only in the file follow them.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table shaped by schema.
func NewTable(schema Schema) *Table {
	return &Table{
		Name:    schema.Name,
		Columns: append([]string(nil), schema.Columns...),
	}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds row, copying it so later caller edits do not leak in.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, cloneRow(row))
}

// Get returns the cell at row i, or "" when the row or cell is absent.
func (t *Table) Get(i int, column string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][column]
}

// Set writes one cell of row i.
func (t *Table) Set(i int, column, value string) {
	if i < 0 || i >= len(t.Rows) {
		return
	}
	t.Rows[i][column] = value
}

// Find returns the index of the first row whose column equals value, or -1.
func (t *Table) Find(column, value string) int {
	for i, row := range t.Rows {
		if row[column] == value {
			return i
		}
	}
	return -1
}

// UpsertByKey replaces the cells of the row keyed by key, or appends row when
// no such row exists. Cells present in the existing row but absent from row
// (extra operator columns) are kept.
func (t *Table) UpsertByKey(keyColumn, key string, row Row) (inserted bool) {
	updated := cloneRow(row)
	updated[keyColumn] = key

	i := t.Find(keyColumn, key)
	if i < 0 {
		t.Rows = append(t.Rows, updated)
		return true
	}

	for column, value := range updated {
		t.Rows[i][column] = value
	}
	return false
}

// Values returns the set of non-empty values in column.
func (t *Table) Values(column string) map[string]struct{} {
	values := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		if v := row[column]; v != "" {
			values[v] = struct{}{}
		}
	}
	return values
}

// Matrix returns the table as header-less string rows in column order.
func (t *Table) Matrix() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, column := range t.Columns {
			record[i] = row[column]
		}
		out = append(out, record)
	}
	return out
}

func (t *Table) Clone() *Table {
	clone := &Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		clone.Rows = append(clone.Rows, cloneRow(row))
	}
	return clone
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
