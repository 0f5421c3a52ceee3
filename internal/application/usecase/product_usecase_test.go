package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/internal/application/usecase"
	"github.com/jhoicas/stock-inventory-api/internal/domain"
	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/domain/repository"
	"github.com/jhoicas/stock-inventory-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

func newUseCases(t *testing.T) (*usecase.ProductUseCase, *usecase.HistoryUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	products := usecase.NewProductUseCase(store.Products(), store.TxRunner()).
		WithClock(func() time.Time { return fixedNow })
	return products, usecase.NewHistoryUseCase(store.History()), store
}

func intPtr(n int) *int { return &n }

func mustCreate(t *testing.T, uc *usecase.ProductUseCase, name string, stock int) *dto.ProductResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: name, Stock: intPtr(stock)})
	require.NoError(t, err)
	return out
}

// failingHistoryTx envuelve el runner real y hace fallar Append, para probar el rollback.
type failingHistoryTx struct {
	inner usecase.TxRunner
}

type failingHistory struct {
	repository.StockHistoryRepository
}

func (failingHistory) Append(context.Context, *entity.StockChange) error {
	return errors.New("disco lleno")
}

func (f failingHistoryTx) Run(ctx context.Context, fn func(repository.ProductRepository, repository.StockHistoryRepository) error) error {
	return f.inner.Run(ctx, func(p repository.ProductRepository, h repository.StockHistoryRepository) error {
		return fn(p, failingHistory{h})
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Get / List
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_LecturaDevuelveLosMismosCampos(t *testing.T) {
	uc, _, _ := newUseCases(t)
	in := dto.CreateProductRequest{
		Name: "Cuaderno", Unit: "und", Category: "Papelería", Brand: "Norma",
		Stock: intPtr(12), Status: "activo", Image: "https://img.example/c.png",
	}

	created, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)
	assert.Equal(t, "Cuaderno", got.Name)
	assert.Equal(t, "und", got.Unit)
	assert.Equal(t, "Papelería", got.Category)
	assert.Equal(t, "Norma", got.Brand)
	assert.Equal(t, 12, got.Stock)
	assert.Equal(t, "activo", got.Status)
	assert.Equal(t, "https://img.example/c.png", got.Image)
}

func TestCreate_StockPorDefectoCero(t *testing.T) {
	uc, _, _ := newUseCases(t)
	out, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Lápiz"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Stock)
}

func TestCreate_NombreDuplicadoSinDistinguirMayusculas(t *testing.T) {
	uc, _, _ := newUseCases(t)
	mustCreate(t, uc, "Pen", 1)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "  pEN "})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestCreate_Validacion(t *testing.T) {
	uc, _, _ := newUseCases(t)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Fields[0].Field)

	_, err = uc.Create(context.Background(), dto.CreateProductRequest{Name: "X", Stock: intPtr(-1)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock", verr.Fields[0].Field)
}

func TestStock_LimiteDeLaColumna(t *testing.T) {
	uc, _, _ := newUseCases(t)
	ctx := context.Background()

	maxed, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Bulk", Stock: intPtr(entity.MaxStock)})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStock, maxed.Stock)

	var verr *domain.ValidationError
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Overflow", Stock: intPtr(entity.MaxStock + 1)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock", verr.Fields[0].Field)

	_, err = uc.Update(ctx, maxed.ID, dto.UpdateProductRequest{Name: "Bulk", Stock: intPtr(3_000_000_000)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock", verr.Fields[0].Field)

	got, err := uc.GetByID(ctx, maxed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStock, got.Stock)
}

func TestGetByID_InexistenteDevuelveNil(t *testing.T) {
	uc, _, _ := newUseCases(t)
	got, err := uc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestList_FiltraPorSubcadena(t *testing.T) {
	uc, _, _ := newUseCases(t)
	mustCreate(t, uc, "Blue Pen", 1)
	mustCreate(t, uc, "Pencil", 1)
	mustCreate(t, uc, "Eraser", 1)

	all, err := uc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pens, err := uc.List(context.Background(), " PEN ")
	require.NoError(t, err)
	require.Len(t, pens, 2)
	assert.Equal(t, "Blue Pen", pens[0].Name)
	assert.Equal(t, "Pencil", pens[1].Name)

	none, err := uc.List(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update + historial
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_EscenarioPen(t *testing.T) {
	uc, history, _ := newUseCases(t)
	ctx := context.Background()

	pen := mustCreate(t, uc, "Pen", 10)
	assert.Equal(t, int64(1), pen.ID)

	updated, err := uc.Update(ctx, pen.ID, dto.UpdateProductRequest{Name: "Pen", Stock: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Stock)

	logs, err := history.ForProduct(ctx, pen.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 10, logs[0].OldQuantity)
	assert.Equal(t, 4, logs[0].NewQuantity)
	assert.Equal(t, entity.SystemActor, logs[0].UserInfo)
	assert.Equal(t, "2025-03-14T15:09:26.535Z", logs[0].ChangeDate)

	_, err = uc.Update(ctx, pen.ID, dto.UpdateProductRequest{Name: "Pen", Stock: intPtr(4)})
	require.NoError(t, err)

	logs, err = history.ForProduct(ctx, pen.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "sin cambio de stock no debe haber nueva entrada")
}

func TestUpdate_HistorialMasRecientePrimero(t *testing.T) {
	store := memory.NewStore()
	clock := fixedNow
	uc := usecase.NewProductUseCase(store.Products(), store.TxRunner()).
		WithClock(func() time.Time { clock = clock.Add(time.Second); return clock })
	history := usecase.NewHistoryUseCase(store.History())
	ctx := context.Background()

	p := mustCreate(t, uc, "Tornillo", 1)
	for _, s := range []int{2, 3, 4} {
		_, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: "Tornillo", Stock: intPtr(s)})
		require.NoError(t, err)
	}

	logs, err := history.ForProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, 4, logs[0].NewQuantity)
	assert.Equal(t, 3, logs[1].NewQuantity)
	assert.Equal(t, 2, logs[2].NewQuantity)
}

func TestUpdate_ReemplazaTodosLosCampos(t *testing.T) {
	uc, _, _ := newUseCases(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Taza", Brand: "Corona", Category: "Hogar"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: "Taza grande", Stock: intPtr(0), Unit: "und"})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *out, *got)
	assert.Equal(t, "Taza grande", got.Name)
	assert.Equal(t, "und", got.Unit)
	assert.Empty(t, got.Brand)
	assert.Empty(t, got.Category)
}

func TestUpdate_MismoNombrePropioEsValido(t *testing.T) {
	uc, _, _ := newUseCases(t)
	p := mustCreate(t, uc, "Clip", 5)

	_, err := uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Name: "CLIP", Stock: intPtr(5)})
	assert.NoError(t, err)
}

func TestUpdate_NombreDeOtroProductoFalla(t *testing.T) {
	uc, _, _ := newUseCases(t)
	mustCreate(t, uc, "Clip", 5)
	other := mustCreate(t, uc, "Grapa", 5)

	_, err := uc.Update(context.Background(), other.ID, dto.UpdateProductRequest{Name: "clip", Stock: intPtr(5)})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestUpdate_Inexistente(t *testing.T) {
	uc, _, _ := newUseCases(t)
	_, err := uc.Update(context.Background(), 99, dto.UpdateProductRequest{Name: "X", Stock: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_StockRequerido(t *testing.T) {
	uc, _, _ := newUseCases(t)
	p := mustCreate(t, uc, "Clip", 5)
	_, err := uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Name: "Clip"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_FalloEnHistorialRevierteProducto(t *testing.T) {
	store := memory.NewStore()
	ok := usecase.NewProductUseCase(store.Products(), store.TxRunner())
	broken := usecase.NewProductUseCase(store.Products(), failingHistoryTx{inner: store.TxRunner()})
	ctx := context.Background()

	p := mustCreate(t, ok, "Martillo", 3)
	_, err := broken.Update(ctx, p.ID, dto.UpdateProductRequest{Name: "Martillo", Stock: intPtr(9)})
	require.Error(t, err)

	got, err := ok.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock, "el producto no debe quedar actualizado si falla el historial")
}

// ──────────────────────────────────────────────────────────────────────────────
// Remove
// ──────────────────────────────────────────────────────────────────────────────

func TestRemove_BorraProductoEHistorial(t *testing.T) {
	uc, history, _ := newUseCases(t)
	ctx := context.Background()
	p := mustCreate(t, uc, "Sierra", 1)
	keep := mustCreate(t, uc, "Lija", 1)
	_, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: "Sierra", Stock: intPtr(2)})
	require.NoError(t, err)
	_, err = uc.Update(ctx, keep.ID, dto.UpdateProductRequest{Name: "Lija", Stock: intPtr(2)})
	require.NoError(t, err)

	require.NoError(t, uc.Remove(ctx, p.ID))

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	logs, err := history.ForProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)

	kept, err := history.ForProduct(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestRemove_Inexistente(t *testing.T) {
	uc, _, _ := newUseCases(t)
	assert.ErrorIs(t, uc.Remove(context.Background(), 7), domain.ErrNotFound)
}
