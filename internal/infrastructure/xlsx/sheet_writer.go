package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-inventory-api/internal/application/catalog"
)

var _ catalog.SpreadsheetWriter = (*SheetWriter)(nil)

const sheetName = "Sheet1"

// SheetWriter implementa catalog.SpreadsheetWriter con excelize. Las columnas listadas en
// numeric se escriben como números para que la hoja pueda sumarlas.
type SheetWriter struct {
	numeric map[string]bool
}

// NewSheetWriter construye el escritor; numericColumns son nombres de cabecera.
func NewSheetWriter(numericColumns ...string) *SheetWriter {
	numeric := make(map[string]bool, len(numericColumns))
	for _, c := range numericColumns {
		numeric[c] = true
	}
	return &SheetWriter{numeric: numeric}
}

// WriteSheet escribe la cabecera en negrita y luego las filas.
func (s *SheetWriter) WriteSheet(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerCells); err != nil {
		return fmt.Errorf("xlsx: cabecera: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return fmt.Errorf("xlsx: estilo cabecera: %w", err)
		}
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if j < len(header) && s.numeric[header[j]] {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					cells[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
