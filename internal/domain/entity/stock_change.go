package entity

import "time"

// SystemActor es el usuario registrado en el historial mientras no exista autenticación.
const SystemActor = "admin"

// ChangeDateLayout es el formato ISO-8601 (UTC, milisegundos) de ChangeDate.
const ChangeDateLayout = "2006-01-02T15:04:05.000Z"

// StockChange es una entrada inmutable del historial: una transición de stock de un producto.
type StockChange struct {
	ID          int64
	ProductID   int64
	OldQuantity int
	NewQuantity int
	ChangeDate  string
	UserInfo    string
}

// NewStockChange arma la entrada con la fecha t en UTC.
func NewStockChange(productID int64, oldQty, newQty int, t time.Time, actor string) *StockChange {
	return &StockChange{
		ProductID:   productID,
		OldQuantity: oldQty,
		NewQuantity: newQty,
		ChangeDate:  t.UTC().Format(ChangeDateLayout),
		UserInfo:    actor,
	}
}
