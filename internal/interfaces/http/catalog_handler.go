package http

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/stock-inventory-api/internal/application/catalog"
	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// CatalogHandler importación y exportación masiva de productos.
type CatalogHandler struct {
	importUC  *catalog.ImportUseCase
	exportUC  *catalog.ExportUseCase
	uploadDir string
	log       *logger.Logger
}

// NewCatalogHandler construye el handler. uploadDir guarda los CSV mientras se procesan.
func NewCatalogHandler(importUC *catalog.ImportUseCase, exportUC *catalog.ExportUseCase, uploadDir string, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{importUC: importUC, exportUC: exportUC, uploadDir: uploadDir, log: log}
}

// Import godoc
// @Summary      Importar productos desde CSV
// @Description  Columnas: name (requerida), unit, category, brand, stock, status, image.
// @Description  Los nombres repetidos (sin distinguir mayúsculas) se omiten y se reportan.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        csvFile  formData  file  true  "Archivo CSV"
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *CatalogHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("csvFile")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "CSV file is required", Code: "MISSING_FILE"})
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return respondError(c, h.log, err, "Failed to import products")
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+".csv")
	if err := c.SaveFile(fh, path); err != nil {
		return respondError(c, h.log, err, "Failed to import products")
	}
	defer h.removeUpload(path)

	f, err := os.Open(path)
	if err != nil {
		return respondError(c, h.log, err, "Failed to read CSV file")
	}
	defer f.Close()

	result, err := h.importUC.Import(c.Context(), f)
	if err != nil {
		return respondError(c, h.log, err, "Failed to import products")
	}
	return c.JSON(result)
}

func (h *CatalogHandler) removeUpload(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.log.Warn().Err(err).Str("file", path).Msg("no se pudo borrar el CSV subido")
	}
}

// ExportCSV godoc
// @Summary      Exportar productos a CSV
// @Tags         products
// @Produce      text/csv
// @Success      200  {string}  string  "products.csv"
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/export [get]
func (h *CatalogHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.exportUC.CSV(c.Context(), &buf); err != nil {
		return respondError(c, h.log, err, "Failed to export products")
	}
	c.Attachment("products.csv")
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(buf.Bytes())
}

// ExportXLSX godoc
// @Summary      Exportar productos a Excel
// @Tags         products
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/export.xlsx [get]
func (h *CatalogHandler) ExportXLSX(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.exportUC.XLSX(c.Context(), &buf); err != nil {
		return respondError(c, h.log, err, "Failed to export products")
	}
	c.Attachment("products.xlsx")
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}

// StockReport godoc
// @Summary      Reporte PDF de existencias
// @Tags         products
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/report.pdf [get]
func (h *CatalogHandler) StockReport(c *fiber.Ctx) error {
	doc, err := h.exportUC.PDF(c.Context())
	if err != nil {
		return respondError(c, h.log, err, "Failed to generate stock report")
	}
	c.Attachment("stock-report.pdf")
	c.Set(fiber.HeaderContentType, pdfContentType)
	return c.Send(doc)
}
