// seed carga productos iniciales en PostgreSQL a partir de un CSV, con las mismas reglas que
// POST /api/products/import (nombres repetidos se omiten y se informan).
//
// Uso: go run ./cmd/seed [-latin1] [ruta/products.csv]
// Por defecto lee seed/products.csv. Con -latin1 el archivo se decodifica como ISO-8859-1
// (exportaciones de hojas de cálculo antiguas).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-inventory-api/internal/application/catalog"
	"github.com/jhoicas/stock-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-inventory-api/pkg/config"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "decodificar el CSV como ISO-8859-1")
	flag.Parse()

	csvPath := "seed/products.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	importUC := catalog.NewImportUseCase(postgres.NewTxRunner(pool), log.Named("seed"))
	result, err := importUC.Import(ctx, r)
	if err != nil {
		pool.Close()
		log.Fatal().Err(err).Str("file", csvPath).Msg("importar CSV")
	}

	for _, d := range result.Duplicates {
		fmt.Printf("omitido %q: ya existe con id %d\n", d.Name, d.ExistingID)
	}
	fmt.Printf("Agregados: %d, omitidos: %d\n", result.Added, result.Skipped)
}
