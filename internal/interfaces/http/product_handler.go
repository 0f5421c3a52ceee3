package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/internal/application/usecase"
	"github.com/jhoicas/stock-inventory-api/internal/domain"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP de productos y su historial.
type ProductHandler struct {
	uc      *usecase.ProductUseCase
	history *usecase.HistoryUseCase
	log     *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, history *usecase.HistoryUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, history: history, log: log}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        name  query  string  false  "Subcadena del nombre (sin distinguir mayúsculas)"
// @Success      200   {array}   dto.ProductResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("name"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch products")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respondError(c, h.log, domain.ErrNotFound, "")
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch product")
	}
	if out == nil {
		return respondError(c, h.log, domain.ErrNotFound, "")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateRequest(in); err != nil {
		return respondError(c, h.log, err, "Failed to create product")
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Reemplaza todos los campos. Si el stock cambia se registra en el historial.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos del producto"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respondError(c, h.log, domain.ErrNotFound, "")
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateRequest(in); err != nil {
		return respondError(c, h.log, err, "Failed to update product")
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update product")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto y su historial
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.DeleteProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return respondError(c, h.log, domain.ErrNotFound, "")
	}
	if err := h.uc.Remove(c.Context(), id); err != nil {
		return respondError(c, h.log, err, "Failed to delete product")
	}
	return c.JSON(dto.DeleteProductResponse{Message: "Product deleted"})
}

// History godoc
// @Summary      Historial de stock del producto
// @Description  Más reciente primero. Lista vacía si no hay historial o el producto no existe.
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {array}   dto.StockChangeResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/history [get]
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return c.JSON([]dto.StockChangeResponse{})
	}
	out, err := h.history.ForProduct(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch inventory history")
	}
	return c.JSON(out)
}

// productID lee :id; un ID no numérico no puede existir.
func productID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
