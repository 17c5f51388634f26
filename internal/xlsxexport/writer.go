// Package xlsxexport renders the invoice register as an Excel workbook.
package xlsxexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"dealerops/internal/csvexport"
	"dealerops/internal/domain"
)

const sheetName = "Invoice Register"

// Write renders the invoices into a single-sheet workbook and returns the
// serialized bytes. Column layout matches the CSV register.
func Write(invoices []domain.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsxexport: creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsxexport: dropping default sheet: %w", err)
	}

	header := make([]interface{}, len(csvexport.Columns))
	for i, c := range csvexport.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsxexport: writing header: %w", err)
	}

	for i := range invoices {
		row := csvexport.InvoiceRow(&invoices[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsxexport: row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("xlsxexport: writing row %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsxexport: serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
