package repository

import (
	"context"

	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
)

// StockHistoryRepository persiste el historial de cambios de stock (solo anexar).
type StockHistoryRepository interface {
	Append(ctx context.Context, change *entity.StockChange) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.StockChange, error)
	DeleteByProduct(ctx context.Context, productID int64) error
}
