package usecase

import (
	"context"

	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
)

// HistoryUseCase lectura del historial de stock.
type HistoryUseCase struct {
	repo repository.StockHistoryRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(repo repository.StockHistoryRepository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

// ForProduct devuelve el historial del producto, más reciente primero. Nunca nil: un producto
// sin historial (o inexistente) da una lista vacía.
func (uc *HistoryUseCase) ForProduct(ctx context.Context, productID int64) ([]dto.StockChangeResponse, error) {
	list, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockChangeResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.StockChangeResponse{
			ID:          c.ID,
			ProductID:   c.ProductID,
			OldQuantity: c.OldQuantity,
			NewQuantity: c.NewQuantity,
			ChangeDate:  c.ChangeDate,
			UserInfo:    c.UserInfo,
		})
	}
	return out, nil
}
