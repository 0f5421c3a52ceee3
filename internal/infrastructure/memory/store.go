// Package memory implementa los puertos de persistencia en memoria. Se usa en desarrollo local
// (STORE_DRIVER=memory) y en los tests; respeta las mismas reglas que el esquema PostgreSQL
// (nombre único sin distinguir mayúsculas, IDs crecientes, rollback de transacciones).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/stock-inventory-api/internal/application/usecase"
	"github.com/jhoicas/stock-inventory-api/internal/domain"
	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)
	_ usecase.TxRunner                  = (*TxRunner)(nil)
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu            sync.RWMutex
	txMu          sync.Mutex
	products      map[int64]entity.Product
	history       []entity.StockChange
	nextProductID int64
	nextChangeID  int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{products: make(map[int64]entity.Product)}
}

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// History devuelve el repositorio de historial.
func (s *Store) History() *StockHistoryRepo { return &StockHistoryRepo{s: s} }

// TxRunner devuelve un runner que serializa las transacciones y restaura el estado ante error.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

type snapshot struct {
	products      map[int64]entity.Product
	history       []entity.StockChange
	nextProductID int64
	nextChangeID  int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make(map[int64]entity.Product, len(s.products))
	for id, p := range s.products {
		products[id] = p
	}
	return snapshot{
		products:      products,
		history:       append([]entity.StockChange(nil), s.history...),
		nextProductID: s.nextProductID,
		nextChangeID:  s.nextChangeID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.history = snap.history
	s.nextProductID = snap.nextProductID
	s.nextChangeID = snap.nextChangeID
}

// lockWrite bloquea el estado para escribir. Fuera de una transacción también toma txMu:
// una escritura confirmada no puede quedar dentro del snapshot de otra transacción que luego
// se revierta.
func (s *Store) lockWrite(inTx bool) func() {
	if inTx {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// nameTakenLocked indica si otro producto (distinto de excludeID) usa el nombre.
func (s *Store) nameTakenLocked(name string, excludeID int64) *entity.Product {
	for _, p := range s.sortedLocked() {
		if p.ID != excludeID && entity.SameName(p.Name, name) {
			return p
		}
	}
	return nil
}

func (s *Store) sortedLocked() []*entity.Product {
	list := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

// Create asigna el siguiente ID y guarda una copia.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	if r.s.nameTakenLocked(product.Name, 0) != nil {
		return domain.ErrDuplicateName
	}
	r.s.nextProductID++
	product.ID = r.s.nextProductID
	r.s.products[product.ID] = *product
	return nil
}

// GetByID devuelve una copia o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// FindByName búsqueda exacta sin distinguir mayúsculas.
func (r *ProductRepo) FindByName(_ context.Context, name string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.nameTakenLocked(name, 0), nil
}

// FindByNameExcluding igual que FindByName ignorando excludeID.
func (r *ProductRepo) FindByNameExcluding(_ context.Context, name string, excludeID int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.nameTakenLocked(name, excludeID), nil
}

// List filtra por subcadena del nombre sin distinguir mayúsculas.
func (r *ProductRepo) List(_ context.Context, nameFilter string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(nameFilter))
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.sortedLocked() {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListAll todos los productos por ID ascendente.
func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedLocked(), nil
}

// Update reemplaza el producto guardado.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.s.nameTakenLocked(product.Name, product.ID) != nil {
		return domain.ErrDuplicateName
	}
	r.s.products[product.ID] = *product
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

// StockHistoryRepo implementación en memoria de StockHistoryRepository.
type StockHistoryRepo struct {
	s    *Store
	inTx bool
}

// Append agrega una entrada y asigna su ID.
func (r *StockHistoryRepo) Append(_ context.Context, change *entity.StockChange) error {
	defer r.s.lockWrite(r.inTx)()
	r.s.nextChangeID++
	change.ID = r.s.nextChangeID
	r.s.history = append(r.s.history, *change)
	return nil
}

// ListByProduct ordena por ChangeDate y luego ID, ambos descendentes.
func (r *StockHistoryRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.StockChange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockChange, 0)
	for _, c := range r.s.history {
		if c.ProductID == productID {
			c := c
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ChangeDate != out[j].ChangeDate {
			return out[i].ChangeDate > out[j].ChangeDate
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// DeleteByProduct elimina el historial del producto.
func (r *StockHistoryRepo) DeleteByProduct(_ context.Context, productID int64) error {
	defer r.s.lockWrite(r.inTx)()
	kept := r.s.history[:0]
	for _, c := range r.s.history {
		if c.ProductID != productID {
			kept = append(kept, c)
		}
	}
	r.s.history = kept
	return nil
}

// ── Transacciones ─────────────────────────────────────────────────────────────

// TxRunner serializa las transacciones; si fn falla restaura el estado previo. Las escrituras
// fuera de transacción esperan a que termine, así el rollback solo deshace lo propio.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con los repositorios del almacén.
func (t *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.StockHistoryRepository,
) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(&ProductRepo{s: t.s, inTx: true}, &StockHistoryRepo{s: t.s, inTx: true}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
