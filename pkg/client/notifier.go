package client

import "github.com/jhoicas/stock-inventory-api/pkg/logger"

// Notifier recibe los avisos del Store (equivalente a los toasts de una interfaz). Se invoca
// sin el mutex del Store tomado: puede leer el estado desde el aviso.
type Notifier interface {
	Success(msg string)
	Failure(msg string, err error)
}

type nopNotifier struct{}

func (nopNotifier) Success(string)        {}
func (nopNotifier) Failure(string, error) {}

// LogNotifier publica los avisos en el logger estructurado.
type LogNotifier struct {
	Log *logger.Logger
}

func (n LogNotifier) Success(msg string) {
	n.Log.Info().Msg(msg)
}

func (n LogNotifier) Failure(msg string, err error) {
	n.Log.Error().Err(err).Msg(msg)
}
