package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/internal/domain"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

// respondError traduce un error de dominio a la respuesta HTTP. Los errores no
// clasificados se registran con detalle y se responden con internalMsg genérico.
func respondError(c *fiber.Ctx, log *logger.Logger, err error, internalMsg string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]dto.FieldErrorResponse, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, dto.FieldErrorResponse{Field: f.Field, Message: f.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: verr.Error(), Code: "VALIDATION", Errors: fields,
		})
	case errors.Is(err, domain.ErrDuplicateName):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Product name must be unique", Code: "DUPLICATE_NAME"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Product not found", Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrImportRead):
		log.Error().Err(err).Str("path", c.Path()).Msg("lectura del CSV")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to read CSV file", Code: "IMPORT_READ"})
	case errors.Is(err, domain.ErrImport):
		log.Error().Err(err).Str("path", c.Path()).Msg("importación CSV")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to import products", Code: "IMPORT"})
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(internalMsg)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: internalMsg, Code: "INTERNAL"})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body", Code: "INVALID_BODY"})
}
