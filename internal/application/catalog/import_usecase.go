package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/internal/application/usecase"
	"github.com/jhoicas/stock-inventory-api/internal/domain"
	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
	"github.com/jhoicas/stock-inventory-api/pkg/csvx"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

// ImportUseCase importación masiva de productos desde CSV.
//
// Las filas se procesan en orden y de forma secuencial: la detección de duplicados se hace
// contra el repositorio, que ya refleja las filas insertadas antes en el mismo archivo. Todo
// corre en una transacción; un error de lectura o de inserción no deja filas a medias.
type ImportUseCase struct {
	txRunner usecase.TxRunner
	log      *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner usecase.TxRunner, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner, log: log}
}

// Import consume r y devuelve el resumen. Errores: domain.ErrImportRead si el CSV no se puede
// leer, domain.ErrImport si falla una inserción.
func (uc *ImportUseCase) Import(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	var result *dto.ImportResult
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.StockHistoryRepository) error {
		res, err := uc.importRows(ctx, productRepo, r)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Msg("importación CSV terminada")
	return result, nil
}

func (uc *ImportUseCase) importRows(ctx context.Context, repo repository.ProductRepository, r io.Reader) (*dto.ImportResult, error) {
	result := &dto.ImportResult{Duplicates: make([]dto.ImportDuplicate, 0)}
	line := 1
	for rec, err := range csvx.Rows(r) {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrImportRead, err)
		}
		line++
		product, ok := normalizeRow(rec)
		if !ok {
			continue
		}
		existing, err := repo.FindByName(ctx, product.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d: %w", domain.ErrImport, line, err)
		}
		if existing != nil {
			result.Duplicates = append(result.Duplicates, dto.ImportDuplicate{Name: product.Name, ExistingID: existing.ID})
			result.Skipped++
			continue
		}
		if err := repo.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("%w: fila %d: %w", domain.ErrImport, line, err)
		}
		result.Added++
	}
	return result, nil
}

// normalizeRow arma el producto de una fila. Las filas sin nombre se descartan (ok=false)
// sin contarse como omitidas ni duplicadas.
func normalizeRow(rec csvx.Record) (*entity.Product, bool) {
	name := strings.TrimSpace(rec.Get("name"))
	if name == "" {
		return nil, false
	}
	return &entity.Product{
		Name:     name,
		Unit:     rec.Get("unit"),
		Category: rec.Get("category"),
		Brand:    rec.Get("brand"),
		Stock:    parseStock(rec.Get("stock")),
		Status:   rec.Get("status"),
		Image:    rec.Get("image"),
	}, true
}

// parseStock toma el prefijo entero del texto ("12 und" -> 12, "3.7" -> 3). Vacío, no
// numérico, negativo o mayor que entity.MaxStock -> 0.
func parseStock(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > (entity.MaxStock-int(s[i]-'0'))/10 {
			return 0
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return 0
	}
	return n
}
