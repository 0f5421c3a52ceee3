// Package csvx lee y escribe el CSV de productos: lectura perezosa por filas con cabecera y
// escritura con el escapado mínimo (comillas solo si el campo contiene coma o comillas).
package csvx

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Record fila del CSV indexada por nombre de columna (cabecera recortada y en minúsculas).
type Record map[string]string

// Get devuelve el valor de la columna o "" si la fila no la trae.
func (r Record) Get(column string) string {
	return r[strings.ToLower(column)]
}

// Has indica si la columna venía en la fila.
func (r Record) Has(column string) bool {
	_, ok := r[strings.ToLower(column)]
	return ok
}

// Rows devuelve una secuencia perezosa y finita de filas. La primera fila del flujo es la
// cabecera. La secuencia no se puede reiniciar: para reprocesar hace falta un flujo nuevo.
// Un error de lectura se entrega una sola vez y termina la secuencia. Un BOM inicial
// (UTF-8 o UTF-16) se descarta.
func Rows(r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
		cr.FieldsPerRecord = -1

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("leer cabecera: %w", err))
			return
		}
		columns := make([]string, len(header))
		for i, h := range header {
			columns[i] = strings.ToLower(strings.TrimSpace(h))
		}

		for {
			fields, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("leer fila: %w", err))
				return
			}
			rec := make(Record, len(columns))
			for i, v := range fields {
				if i >= len(columns) || columns[i] == "" {
					continue
				}
				rec[columns[i]] = v
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
