package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/internal/domain"
	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Update y Remove son transaccionales:
// el cambio de stock y su entrada de historial se confirman juntos o no se confirman.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner TxRunner
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, now: time.Now}
}

// WithClock reemplaza el reloj usado para fechar el historial.
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	uc.now = now
	return uc
}

// List lista productos; nameFilter filtra por subcadena del nombre sin distinguir mayúsculas.
func (uc *ProductUseCase) List(ctx context.Context, nameFilter string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(nameFilter))
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Create crea un producto. Nombre requerido y único (sin distinguir mayúsculas); stock >= 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	product := &entity.Product{
		Name:     strings.TrimSpace(in.Name),
		Unit:     in.Unit,
		Category: in.Category,
		Brand:    in.Brand,
		Stock:    stock,
		Status:   in.Status,
		Image:    in.Image,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	existing, err := uc.repo.FindByName(ctx, product.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update reemplaza los campos del producto id. Si el stock cambia, agrega una entrada al
// historial en la misma transacción.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Stock == nil {
		return nil, domain.NewValidationError("stock", entity.StockMessage)
	}
	product := &entity.Product{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Unit:     in.Unit,
		Category: in.Category,
		Brand:    in.Brand,
		Stock:    *in.Stock,
		Status:   in.Status,
		Image:    in.Image,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.StockHistoryRepository) error {
		existing, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		conflict, err := productRepo.FindByNameExcluding(ctx, product.Name, id)
		if err != nil {
			return err
		}
		if conflict != nil {
			return domain.ErrDuplicateName
		}
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		if existing.Stock == product.Stock {
			return nil
		}
		change := entity.NewStockChange(id, existing.Stock, product.Stock, uc.now(), entity.SystemActor)
		return historyRepo.Append(ctx, change)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Remove elimina el producto y todo su historial en una sola transacción.
func (uc *ProductUseCase) Remove(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.StockHistoryRepository) error {
		existing, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if err := historyRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return productRepo.Delete(ctx, id)
	})
}

func validateProduct(p *entity.Product) error {
	verr := &domain.ValidationError{}
	if p.Name == "" {
		verr.Fields = append(verr.Fields, domain.FieldError{Field: "name", Message: "Name is required"})
	}
	if p.Stock < 0 || p.Stock > entity.MaxStock {
		verr.Fields = append(verr.Fields, domain.FieldError{Field: "stock", Message: entity.StockMessage})
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Unit:     p.Unit,
		Category: p.Category,
		Brand:    p.Brand,
		Stock:    p.Stock,
		Status:   p.Status,
		Image:    p.Image,
	}
}
