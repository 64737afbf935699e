package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var orderNoteExportHeaders = []string{
	"#", "Material Code", "Material Name", "Quantity", "Unit Price", "Line Total",
}

// ExportOrderNote renders an order note as an xlsx document for the supplier.
func (s *ProcurementService) ExportOrderNote(ctx context.Context, id string) (*excelize.File, string, error) {
	note, err := s.repos.OrderNote.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Order Note"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range orderNoteExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range note.Items {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rowIdx+1)
		if item.RawMaterial != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.RawMaterial.Code)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.RawMaterial.Name)
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.UnitPrice)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), float64(item.Quantity)*item.UnitPrice)
	}

	summaryRow := len(note.Items) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), note.TotalValue)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	colWidths := []float64{6, 16, 30, 10, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("order_note_%s.xlsx", note.ID)
	return f, filename, nil
}
