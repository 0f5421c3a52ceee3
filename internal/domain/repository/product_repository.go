package repository

import (
	"context"

	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos Get/Find devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	FindByName(ctx context.Context, name string) (*entity.Product, error)
	FindByNameExcluding(ctx context.Context, name string, excludeID int64) (*entity.Product, error)
	List(ctx context.Context, nameFilter string) ([]*entity.Product, error)
	ListAll(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error
}
