package dto

// CreateProductRequest entrada para crear un producto. Stock opcional (0 por defecto).
type CreateProductRequest struct {
	Name     string `json:"name" validate:"required"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Stock    *int   `json:"stock" validate:"omitempty,min=0,max=2147483647"`
	Status   string `json:"status"`
	Image    string `json:"image"`
}

// UpdateProductRequest entrada para actualizar un producto. Reemplaza todos los campos.
type UpdateProductRequest struct {
	Name     string `json:"name" validate:"required"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Stock    *int   `json:"stock" validate:"required,min=0,max=2147483647"`
	Status   string `json:"status"`
	Image    string `json:"image"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Stock    int    `json:"stock"`
	Status   string `json:"status"`
	Image    string `json:"image"`
}

// StockChangeResponse entrada del historial de stock.
type StockChangeResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"`
	ChangeDate  string `json:"change_date"`
	UserInfo    string `json:"user_info"`
}

// DeleteProductResponse confirmación de borrado.
type DeleteProductResponse struct {
	Message string `json:"message"`
}
