package utils

import (
	"fmt"

	"enrollment-backend/config"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// GenerateTableWorkbook renders a header row plus data rows as an .xlsx file in memory.
func GenerateTableWorkbook(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet rather than adding a second one
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}

	writeRow := func(rowIndex int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(sheetName, cell, &cells)
	}

	if err := writeRow(1, headers); err != nil {
		return nil, fmt.Errorf("error setting headers: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		config.Logger.Error("Failed to render workbook", zap.String("sheet", sheetName), zap.Error(err))
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}

	config.Logger.Info("Workbook generated",
		zap.String("sheet", sheetName),
		zap.Int("rows", len(rows)))
	return buf.Bytes(), nil
}
