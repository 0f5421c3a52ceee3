// Package pdf genera el reporte imprimible de existencias.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Producto | Categoría | Marca | Unidad | Stock   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: productos / unidades / sin stock                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-inventory-api/internal/application/catalog"
	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
)

var _ catalog.StockReportGenerator = (*MarotoStockReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReportGenerator implementa catalog.StockReportGenerator usando Maroto v2.
type MarotoStockReportGenerator struct {
	title string
}

// NewMarotoStockReportGenerator construye el generador; title encabeza la página.
func NewMarotoStockReportGenerator(title string) *MarotoStockReportGenerator {
	return &MarotoStockReportGenerator{title: title}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReportGenerator) GenerateStockReport(
	_ context.Context,
	products []*entity.Product,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(products))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.UTC().Format("02/01/2006 15:04 UTC"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// reportColumns ancho (sobre 12) y alineación de cada columna de la tabla.
var reportColumns = []struct {
	label string
	size  int
	align align.Type
}{
	{"ID", 1, align.Center},
	{"Producto", 4, align.Left},
	{"Categoría", 2, align.Left},
	{"Marca", 2, align.Left},
	{"Unidad", 1, align.Center},
	{"Stock", 2, align.Right},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(reportColumns))
	for _, c := range reportColumns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func tableRows(products []*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		values := []string{
			strconv.FormatInt(p.ID, 10), p.Name, nonEmpty(p.Category, "—"),
			nonEmpty(p.Brand, "—"), nonEmpty(p.Unit, "—"), strconv.Itoa(p.Stock),
		}
		cols := make([]core.Col, 0, len(values))
		for i, v := range values {
			prop := props.Text{Size: 8, Align: reportColumns[i].align, Top: 1, Left: 1, Right: 1}
			if i == len(values)-1 && p.Stock == 0 {
				prop.Color = colorAlert
				prop.Style = fontstyle.Bold
			}
			cols = append(cols, col.New(reportColumns[i].size).Add(text.New(v, prop)))
		}
		result = append(result, row.New(6).Add(cols...))
	}
	return result
}

func totalsRow(products []*entity.Product) core.Row {
	units, outOfStock := 0, 0
	for _, p := range products {
		units += p.Stock
		if p.Stock == 0 {
			outOfStock++
		}
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(4).Add(
			label("Productos:"),
			label("Unidades en stock:"),
			label("Sin stock:"),
		),
		col.New(2).Add(
			value(strconv.Itoa(len(products))),
			value(strconv.Itoa(units)),
			value(strconv.Itoa(outOfStock)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
