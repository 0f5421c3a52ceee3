package dto

// FieldErrorResponse error de validación de un campo.
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP. Errors solo se envía en errores de validación.
type ErrorResponse struct {
	Error  string               `json:"error"`
	Code   string               `json:"code"`
	Errors []FieldErrorResponse `json:"errors,omitempty"`
}
