package tables

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrDecode means a table file could not be read in any supported encoding.
var ErrDecode = errors.New("table file could not be decoded")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText returns data as a UTF-8 string. Files edited by hand on some
// workstations arrive as Latin-1; those are converted.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: latin-1: %v", ErrDecode, err)
	}
	return string(decoded), nil
}

// Decode parses a delimited table file onto schema. Columns are matched by
// header name; schema columns missing from the file are left empty and
// unknown file columns are kept after the schema columns.
func Decode(data []byte, schema Schema) (*Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	table := NewTable(schema)
	if strings.TrimSpace(text) == "" {
		return table, nil
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrDecode, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	known := make(map[string]bool, len(table.Columns))
	for _, column := range table.Columns {
		known[column] = true
	}
	for _, column := range header {
		if column != "" && !known[column] {
			table.Columns = append(table.Columns, column)
			known[column] = true
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDecode, line, err)
		}
		if isBlank(record) {
			continue
		}

		row := make(Row, len(table.Columns))
		for _, column := range table.Columns {
			row[column] = ""
		}
		for i, cell := range record {
			if i < len(header) && header[i] != "" {
				row[header[i]] = cell
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Encode writes the header row then every row in column order, UTF-8.
func Encode(table *Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(table.Columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(table.Matrix()); err != nil {
		return nil, fmt.Errorf("failed to write rows: %w", err)
	}
	return buf.Bytes(), nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
