package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-inventory-api/internal/application/catalog"
	"github.com/jhoicas/stock-inventory-api/internal/application/usecase"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	HistoryUC *usecase.HistoryUseCase
	ImportUC  *catalog.ImportUseCase
	ExportUC  *catalog.ExportUseCase
	UploadDir string
	Log       *logger.Logger
}

// Router registra las rutas de la API. Sin autenticación: el historial registra al usuario fijo.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.HistoryUC, log.Named("products"))
	catalogHandler := NewCatalogHandler(deps.ImportUC, deps.ExportUC, deps.UploadDir, log.Named("catalog"))

	// Rutas fijas antes de /:id
	products.Post("/import", catalogHandler.Import)
	products.Get("/export", catalogHandler.ExportCSV)
	products.Get("/export.xlsx", catalogHandler.ExportXLSX)
	products.Get("/report.pdf", catalogHandler.StockReport)

	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/history", productHandler.History)
}
