package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/infrastructure/pdf"
)

func TestGenerateStockReport_DevuelvePDF(t *testing.T) {
	gen := pdf.NewMarotoStockReportGenerator("Reporte de existencias")
	products := []*entity.Product{
		{ID: 1, Name: "Pen", Category: "Office", Brand: "Bic", Unit: "und", Stock: 10},
		{ID: 2, Name: "Widget", Stock: 0},
	}

	doc, err := gen.GenerateStockReport(context.Background(), products, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")), "el documento debe empezar con la firma PDF")
}

func TestGenerateStockReport_SinProductos(t *testing.T) {
	gen := pdf.NewMarotoStockReportGenerator("Reporte de existencias")
	doc, err := gen.GenerateStockReport(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
