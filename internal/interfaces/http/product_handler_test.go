package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-inventory-api/internal/application/catalog"
	"github.com/jhoicas/stock-inventory-api/internal/application/dto"
	"github.com/jhoicas/stock-inventory-api/internal/application/usecase"
	"github.com/jhoicas/stock-inventory-api/internal/domain/entity"
	"github.com/jhoicas/stock-inventory-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-inventory-api/internal/infrastructure/pdf"
	infraxlsx "github.com/jhoicas/stock-inventory-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/stock-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/stock-inventory-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app       *fiber.App
	store     *memory.Store
	uploadDir string
}

// buildTestApp monta el router completo sobre el almacén en memoria.
func buildTestApp(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	uploadDir := t.TempDir()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC: usecase.NewProductUseCase(store.Products(), store.TxRunner()),
		HistoryUC: usecase.NewHistoryUseCase(store.History()),
		ImportUC:  catalog.NewImportUseCase(store.TxRunner(), logger.Nop()),
		ExportUC: catalog.NewExportUseCase(store.Products(),
			infraxlsx.NewSheetWriter("id", "stock"),
			infrapdf.NewMarotoStockReportGenerator("Existencias")),
		UploadDir: uploadDir,
		Log:       logger.Nop(),
	})
	return &testAPI{app: app, store: store, uploadDir: uploadDir}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *testAPI) seed(t *testing.T, name string, stock int) int64 {
	t.Helper()
	p := &entity.Product{Name: name, Stock: stock}
	require.NoError(t, a.store.Products().Create(context.Background(), p))
	return p.ID
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func intPtr(n int) *int { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_201YLuegoListado(t *testing.T) {
	api := buildTestApp(t)

	resp := api.do(t, http.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: "Pen", Unit: "und", Category: "Office", Stock: intPtr(10),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Pen", created.Name)
	assert.Equal(t, 10, created.Stock)

	list := decode[[]dto.ProductResponse](t, api.do(t, http.MethodGet, "/api/products", nil))
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestCreate_SinNombre400ConCampos(t *testing.T) {
	api := buildTestApp(t)

	resp := api.do(t, http.MethodPost, "/api/products", map[string]any{"stock": 3})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	require.NotEmpty(t, body.Errors)
	assert.Equal(t, "name", body.Errors[0].Field)
}

func TestCreate_StockNegativo400(t *testing.T) {
	api := buildTestApp(t)

	resp := api.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Pen", "stock": -1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreate_NombreDuplicadoSinDistinguirMayusculas(t *testing.T) {
	api := buildTestApp(t)
	api.seed(t, "Pen", 1)

	resp := api.do(t, http.MethodPost, "/api/products", dto.CreateProductRequest{Name: "PEN"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Product name must be unique", decode[dto.ErrorResponse](t, resp).Error)
}

func TestCreate_CuerpoInvalido(t *testing.T) {
	api := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := api.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_BODY", body.Code)
	assert.Equal(t, "Invalid request body", body.Error)
}

func TestStock_LimiteInt32(t *testing.T) {
	api := buildTestApp(t)

	resp := api.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Overflow", "stock": 3000000000})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	require.NotEmpty(t, body.Errors)
	assert.Equal(t, "stock", body.Errors[0].Field)

	resp = api.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Bulk", "stock": 2147483647})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 2147483647, created.Stock)

	resp = api.do(t, http.MethodPut, "/api/products/"+itoa(created.ID), map[string]any{"name": "Bulk", "stock": 2147483648})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestList_FiltroPorNombre(t *testing.T) {
	api := buildTestApp(t)
	api.seed(t, "Blue Pen", 1)
	api.seed(t, "Stapler", 1)

	list := decode[[]dto.ProductResponse](t, api.do(t, http.MethodGet, "/api/products?name=pen", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Blue Pen", list[0].Name)
}

func TestGetByID(t *testing.T) {
	api := buildTestApp(t)
	id := api.seed(t, "Pen", 4)

	resp := api.do(t, http.MethodGet, "/api/products/"+itoa(id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pen", decode[dto.ProductResponse](t, resp).Name)

	assert.Equal(t, fiber.StatusNotFound, api.do(t, http.MethodGet, "/api/products/999", nil).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, api.do(t, http.MethodGet, "/api/products/abc", nil).StatusCode)
}

func TestUpdate_RegistraHistorialSoloSiCambiaStock(t *testing.T) {
	api := buildTestApp(t)
	id := api.seed(t, "Pen", 10)
	path := "/api/products/" + itoa(id)

	resp := api.do(t, http.MethodPut, path, dto.UpdateProductRequest{Name: "Pen", Stock: intPtr(7)})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, decode[dto.ProductResponse](t, resp).Stock)

	resp = api.do(t, http.MethodPut, path, dto.UpdateProductRequest{Name: "Pen", Unit: "box", Stock: intPtr(7)})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	history := decode[[]dto.StockChangeResponse](t, api.do(t, http.MethodGet, path+"/history", nil))
	require.Len(t, history, 1)
	assert.Equal(t, 10, history[0].OldQuantity)
	assert.Equal(t, 7, history[0].NewQuantity)
	assert.Equal(t, "admin", history[0].UserInfo)
}

func TestUpdate_Errores(t *testing.T) {
	api := buildTestApp(t)
	id := api.seed(t, "Pen", 10)
	api.seed(t, "Stapler", 1)
	path := "/api/products/" + itoa(id)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"no existe", "/api/products/999", dto.UpdateProductRequest{Name: "X", Stock: intPtr(1)}, fiber.StatusNotFound},
		{"id no numérico", "/api/products/abc", dto.UpdateProductRequest{Name: "X", Stock: intPtr(1)}, fiber.StatusNotFound},
		{"id no numérico con cuerpo inválido", "/api/products/abc", map[string]any{"name": ""}, fiber.StatusNotFound},
		{"sin stock", path, map[string]any{"name": "Pen"}, fiber.StatusBadRequest},
		{"stock negativo", path, dto.UpdateProductRequest{Name: "Pen", Stock: intPtr(-2)}, fiber.StatusBadRequest},
		{"nombre de otro producto", path, dto.UpdateProductRequest{Name: "stapler", Stock: intPtr(1)}, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.do(t, http.MethodPut, tt.path, tt.body).StatusCode)
		})
	}
}

func TestDelete_BorraProductoEHistorial(t *testing.T) {
	api := buildTestApp(t)
	id := api.seed(t, "Pen", 10)
	path := "/api/products/" + itoa(id)
	require.Equal(t, fiber.StatusOK, api.do(t, http.MethodPut, path, dto.UpdateProductRequest{Name: "Pen", Stock: intPtr(3)}).StatusCode)

	resp := api.do(t, http.MethodDelete, path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product deleted", decode[dto.DeleteProductResponse](t, resp).Message)

	assert.Equal(t, fiber.StatusNotFound, api.do(t, http.MethodDelete, path, nil).StatusCode)
	history := decode[[]dto.StockChangeResponse](t, api.do(t, http.MethodGet, path+"/history", nil))
	assert.Empty(t, history)
}

func TestHistory_ProductoInexistenteDevuelveListaVacia(t *testing.T) {
	api := buildTestApp(t)

	for _, path := range []string{"/api/products/42/history", "/api/products/abc/history"} {
		resp := api.do(t, http.MethodGet, path, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(raw))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación / exportación
// ──────────────────────────────────────────────────────────────────────────────

func uploadRequest(t *testing.T, field, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "products.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImport_ReportaDuplicadosYBorraElArchivo(t *testing.T) {
	api := buildTestApp(t)
	existing := api.seed(t, "Pen", 1)

	resp, err := api.app.Test(uploadRequest(t, "csvFile", "name,stock\nPEN,3\nStapler,4\nstapler,9\n,5"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode[dto.ImportResult](t, resp)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Duplicates, 2)
	assert.Equal(t, dto.ImportDuplicate{Name: "PEN", ExistingID: existing}, result.Duplicates[0])
	assert.Equal(t, "stapler", result.Duplicates[1].Name)

	entries, err := os.ReadDir(api.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "el CSV subido debe eliminarse tras procesarse")
}

func TestImport_SinArchivo400(t *testing.T) {
	api := buildTestApp(t)

	resp, err := api.app.Test(uploadRequest(t, "otroCampo", "name\nPen"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CSV file is required", decode[dto.ErrorResponse](t, resp).Error)
}

func TestExportCSV_Adjunto(t *testing.T) {
	api := buildTestApp(t)
	api.seed(t, "Pen, blue", 2)
	api.seed(t, `Say "hi"`, 0)

	resp := api.do(t, http.MethodGet, "/api/products/export", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="products.csv"`)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t,
		"id,name,unit,category,brand,stock,status,image\n"+
			`1,"Pen, blue",,,,2,,`+"\n"+
			`2,"Say ""hi""",,,,0,,`,
		string(raw))
}

func TestExportXLSXYReportePDF(t *testing.T) {
	api := buildTestApp(t)
	api.seed(t, "Pen", 2)

	resp := api.do(t, http.MethodGet, "/api/products/export.xlsx", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "un xlsx es un zip")

	resp = api.do(t, http.MethodGet, "/api/products/report.pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
