package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stock-inventory-api/docs"
	"github.com/jhoicas/stock-inventory-api/internal/application/catalog"
	"github.com/jhoicas/stock-inventory-api/internal/application/usecase"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
	"github.com/jhoicas/stock-inventory-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-inventory-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-inventory-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/stock-inventory-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/stock-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/stock-inventory-api/pkg/config"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		productRepo repository.ProductRepository
		historyRepo repository.StockHistoryRepository
		txRunner    usecase.TxRunner
	)
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		productRepo, historyRepo, txRunner = store.Products(), store.History(), store.TxRunner()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		productRepo = postgres.NewProductRepository(pool)
		historyRepo = postgres.NewStockHistoryRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	historyUC := usecase.NewHistoryUseCase(historyRepo)
	importUC := catalog.NewImportUseCase(txRunner, log.Named("import"))

	// Exportaciones: hoja de cálculo (id y stock numéricos) y reporte PDF de existencias
	exportUC := catalog.NewExportUseCase(
		productRepo,
		infraxlsx.NewSheetWriter("id", "stock"),
		infrapdf.NewMarotoStockReportGenerator("Reporte de existencias"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Stock Inventory API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		HistoryUC: historyUC,
		ImportUC:  importUC,
		ExportUC:  exportUC,
		UploadDir: cfg.Upload.Dir,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
