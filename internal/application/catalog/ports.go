package catalog

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
)

// SpreadsheetWriter escribe una hoja con cabecera y filas (XLSX).
type SpreadsheetWriter interface {
	WriteSheet(w io.Writer, header []string, rows [][]string) error
}

// StockReportGenerator genera el reporte imprimible de existencias.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error)
}
