package client

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/text/cases"
)

// DefaultUndoWindow tiempo durante el que un borrado puede deshacerse.
const DefaultUndoWindow = 5 * time.Second

// API operaciones remotas que usa el Store; *Client la implementa.
type API interface {
	List(ctx context.Context, name string) ([]Product, error)
	Create(ctx context.Context, in ProductInput) (*Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*Product, error)
	Delete(ctx context.Context, id int64) error
	Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error)
}

var _ API = (*Client)(nil)

// StoreOption configura el Store.
type StoreOption func(*Store)

// WithNotifier fija el receptor de avisos.
func WithNotifier(n Notifier) StoreOption {
	return func(s *Store) { s.notifier = n }
}

// WithUndoWindow cambia la ventana de deshacer.
func WithUndoWindow(d time.Duration) StoreOption {
	return func(s *Store) { s.undoWindow = d }
}

// WithRequestTimeout límite de la llamada DELETE disparada por el temporizador.
func WithRequestTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.requestTimeout = d }
}

type pendingDelete struct {
	product Product
	timer   *time.Timer
}

// Store estado de la lista de productos del cliente: lista visible (ya filtrada), filtros,
// categorías derivadas y borrados pendientes. Seguro para uso concurrente.
type Store struct {
	api            API
	notifier       Notifier
	undoWindow     time.Duration
	requestTimeout time.Duration
	fold           cases.Caser

	mu             sync.Mutex
	products       []Product
	categories     []string
	nameFilter     string
	categoryFilter string
	pending        map[int64]*pendingDelete
	closed         bool
	inflight       sync.WaitGroup
}

// NewStore crea el Store vacío; llamar Refresh para la primera carga.
func NewStore(api API, opts ...StoreOption) *Store {
	s := &Store{
		api:            api,
		notifier:       nopNotifier{},
		undoWindow:     DefaultUndoWindow,
		requestTimeout: 15 * time.Second,
		fold:           cases.Fold(),
		products:       []Product{},
		categories:     []string{},
		pending:        make(map[int64]*pendingDelete),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products copia de la lista visible.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Product(nil), s.products...)
}

// Categories categorías distintas no vacías de la lista sin filtrar, en orden de aparición.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...)
}

// Filters filtros activos.
func (s *Store) Filters() (name, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nameFilter, s.categoryFilter
}

// SetNameFilter cambia el filtro por nombre y recarga.
func (s *Store) SetNameFilter(ctx context.Context, name string) error {
	s.mu.Lock()
	s.nameFilter = name
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// SetCategoryFilter cambia el filtro de categoría (igualdad sin distinguir mayúsculas) y recarga.
func (s *Store) SetCategoryFilter(ctx context.Context, category string) error {
	s.mu.Lock()
	s.categoryFilter = category
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh recarga todos los productos (para las categorías) y luego la lista filtrada por nombre.
// Si falla se conserva el estado anterior y se avisa al Notifier.
func (s *Store) Refresh(ctx context.Context) error {
	name, category := s.Filters()

	all, err := s.api.List(ctx, "")
	if err != nil {
		s.notifier.Failure("Failed to load products.", err)
		return err
	}
	visible := all
	if name != "" {
		if visible, err = s.api.List(ctx, name); err != nil {
			s.notifier.Failure("Failed to load products.", err)
			return err
		}
	}
	if category != "" {
		visible = s.filterCategory(visible, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = deriveCategories(all)
	s.products = s.withoutPending(visible)
	return nil
}

func (s *Store) filterCategory(in []Product, category string) []Product {
	want := s.fold.String(category)
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if s.fold.String(p.Category) == want {
			out = append(out, p)
		}
	}
	return out
}

// withoutPending oculta los productos con borrado pendiente. Requiere s.mu.
func (s *Store) withoutPending(in []Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if _, ok := s.pending[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func deriveCategories(all []Product) []string {
	seen := make(map[string]struct{}, len(all))
	out := []string{}
	for _, p := range all {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Create da de alta el producto y recarga la lista.
func (s *Store) Create(ctx context.Context, in ProductInput) (*Product, error) {
	p, err := s.api.Create(ctx, in)
	if err != nil {
		s.notifier.Failure("Failed to add product.", err)
		return nil, err
	}
	s.notifier.Success("Product added")
	_ = s.Refresh(ctx)
	return p, nil
}

// Update modifica el producto y lo reemplaza en la lista visible.
func (s *Store) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	p, err := s.api.Update(ctx, id, in)
	if err != nil {
		s.notifier.Failure("Failed to update product.", err)
		return nil, err
	}
	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = *p
		}
	}
	s.mu.Unlock()
	return p, nil
}

// Import sube el CSV, limpia los filtros y recarga para mostrar lo importado.
func (s *Store) Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	res, err := s.api.Import(ctx, filename, r)
	if err != nil {
		s.notifier.Failure("Import failed", err)
		return nil, err
	}
	s.notifier.Success(fmt.Sprintf("Import finished: added %d, skipped %d", res.Added, res.Skipped))

	s.mu.Lock()
	s.nameFilter, s.categoryFilter = "", ""
	s.mu.Unlock()
	_ = s.Refresh(ctx)
	return res, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado con deshacer
// ──────────────────────────────────────────────────────────────────────────────

// RequestDelete quita el producto de la lista visible y programa el DELETE tras la ventana
// de deshacer. Devuelve false si el producto no está visible o ya tiene un borrado pendiente.
func (s *Store) RequestDelete(id int64) bool {
	if !s.scheduleDelete(id) {
		return false
	}
	s.notifier.Success("Product deleted")
	return true
}

func (s *Store) scheduleDelete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if _, ok := s.pending[id]; ok {
		return false
	}
	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	entry := &pendingDelete{product: s.products[idx]}
	s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
	entry.timer = time.AfterFunc(s.undoWindow, func() { s.finalizeDelete(id, entry) })
	s.pending[id] = entry
	return true
}

// Undo cancela un borrado pendiente y devuelve el producto al inicio de la lista.
// Devuelve false si ya no había borrado pendiente (deshecho o ya enviado).
func (s *Store) Undo(id int64) bool {
	if !s.cancelDelete(id) {
		return false
	}
	s.notifier.Success("Deletion undone")
	return true
}

func (s *Store) cancelDelete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.pending[id]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.pending, id)
	s.products = append([]Product{entry.product}, s.products...)
	return true
}

// Pending IDs con borrado programado.
func (s *Store) Pending() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.pending))
	for id := range s.pending {
		out = append(out, id)
	}
	return out
}

// finalizeDelete corre en la goroutine del temporizador. La entrada se valida bajo el mutex,
// así un Undo o Close concurrente gana y el DELETE no se envía.
func (s *Store) finalizeDelete(id int64, entry *pendingDelete) {
	s.mu.Lock()
	if s.closed || s.pending[id] != entry {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	err := s.api.Delete(ctx, id)
	cancel()
	if err != nil {
		s.notifier.Failure("Failed to delete product on server", err)
		refreshCtx, cancelRefresh := context.WithTimeout(context.Background(), s.requestTimeout)
		defer cancelRefresh()
		_ = s.Refresh(refreshCtx)
	}
}

// Close cancela todos los borrados pendientes y espera los DELETE en curso.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	for id, entry := range s.pending {
		entry.timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()
	s.inflight.Wait()
}
