package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
	"github.com/jhoicas/stock-inventory-api/pkg/csvx"
)

// Columns columnas del CSV exportado, en orden.
var Columns = []string{"id", "name", "unit", "category", "brand", "stock", "status", "image"}

// ExportUseCase exporta todos los productos (orden por ID ascendente).
type ExportUseCase struct {
	repo        repository.ProductRepository
	spreadsheet SpreadsheetWriter
	report      StockReportGenerator
	now         func() time.Time
}

// NewExportUseCase construye el caso de uso. spreadsheet y report pueden ser nil si el
// formato no se ofrece.
func NewExportUseCase(repo repository.ProductRepository, spreadsheet SpreadsheetWriter, report StockReportGenerator) *ExportUseCase {
	return &ExportUseCase{repo: repo, spreadsheet: spreadsheet, report: report, now: time.Now}
}

// CSV escribe la cabecera y una línea por producto, separadas por "\n".
func (uc *ExportUseCase) CSV(ctx context.Context, w io.Writer) error {
	products, err := uc.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	cw := csvx.NewWriter(w)
	if err := cw.WriteRow(Columns...); err != nil {
		return fmt.Errorf("escribir cabecera: %w", err)
	}
	for _, p := range products {
		if err := cw.WriteRow(productRow(p)...); err != nil {
			return fmt.Errorf("escribir producto %d: %w", p.ID, err)
		}
	}
	return nil
}

// XLSX escribe las mismas filas del CSV en una hoja de cálculo.
func (uc *ExportUseCase) XLSX(ctx context.Context, w io.Writer) error {
	if uc.spreadsheet == nil {
		return fmt.Errorf("exportación XLSX no configurada")
	}
	products, err := uc.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow(p))
	}
	return uc.spreadsheet.WriteSheet(w, Columns, rows)
}

// PDF genera el reporte de existencias.
func (uc *ExportUseCase) PDF(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("reporte PDF no configurado")
	}
	products, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateStockReport(ctx, products, uc.now())
}

func productRow(p *entity.Product) []string {
	return []string{
		strconv.FormatInt(p.ID, 10), p.Name, p.Unit, p.Category, p.Brand,
		strconv.Itoa(p.Stock), p.Status, p.Image,
	}
}
