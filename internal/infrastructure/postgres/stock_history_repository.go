package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo historial de cambios de stock sobre la tabla inventory_history.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Append inserta una entrada y asigna su ID.
func (r *StockHistoryRepo) Append(ctx context.Context, change *entity.StockChange) error {
	query := `
		INSERT INTO inventory_history (product_id, old_quantity, new_quantity, change_date, user_info)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		change.ProductID, change.OldQuantity, change.NewQuantity, change.ChangeDate, change.UserInfo,
	).Scan(&change.ID)
	if err != nil {
		return fmt.Errorf("insert stock change: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de un producto, el más reciente primero.
func (r *StockHistoryRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockChange, error) {
	query := `
		SELECT id, product_id, old_quantity, new_quantity, change_date, user_info
		FROM inventory_history WHERE product_id = $1
		ORDER BY change_date DESC, id DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockChange, 0)
	for rows.Next() {
		var c entity.StockChange
		if err := rows.Scan(&c.ID, &c.ProductID, &c.OldQuantity, &c.NewQuantity, &c.ChangeDate, &c.UserInfo); err != nil {
			return nil, fmt.Errorf("scan stock change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// DeleteByProduct elimina todo el historial de un producto.
func (r *StockHistoryRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_history WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete stock history: %w", err)
	}
	return nil
}
