package dto

// ImportDuplicate fila del CSV cuyo nombre ya existía (o se insertó antes en el mismo archivo).
type ImportDuplicate struct {
	Name       string `json:"name"`
	ExistingID int64  `json:"existingId"`
}

// ImportResult resumen de POST /api/products/import.
type ImportResult struct {
	Added      int               `json:"added"`
	Skipped    int               `json:"skipped"`
	Duplicates []ImportDuplicate `json:"duplicates"`
}
