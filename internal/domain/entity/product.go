package entity

import (
	"math"
	"strings"
)

// MaxStock mayor stock representable (la columna stock es INTEGER).
const MaxStock = math.MaxInt32

// StockMessage mensaje de validación del stock.
const StockMessage = "Stock must be an integer between 0 and 2147483647"

// Product representa un producto del inventario. El nombre es único sin distinguir mayúsculas.
type Product struct {
	ID       int64
	Name     string
	Unit     string
	Category string
	Brand    string
	Stock    int
	Status   string
	Image    string
}

// SameName compara dos nombres de producto sin distinguir mayúsculas.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
