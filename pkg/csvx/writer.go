package csvx

import (
	"io"
	"strings"
)

// Escape devuelve el campo tal cual, o entre comillas dobles (duplicando las internas) si
// contiene una coma o una comilla doble.
func Escape(field string) string {
	if !strings.ContainsAny(field, `,"`) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Writer escribe líneas separadas por "\n" sin salto de línea final.
type Writer struct {
	w     io.Writer
	lines int
}

// NewWriter construye el escritor sobre w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRow escapa cada campo y escribe la línea.
func (w *Writer) WriteRow(fields ...string) error {
	var b strings.Builder
	if w.lines > 0 {
		b.WriteByte('\n')
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(f))
	}
	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return err
	}
	w.lines++
	return nil
}
