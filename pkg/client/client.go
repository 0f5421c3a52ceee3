// Package client es el cliente Go de la API de inventario: un cliente HTTP tipado (Client)
// y un almacén de estado (Store) con filtros, categorías y borrado con deshacer.
package client

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Product producto tal como lo devuelve la API.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Stock    int    `json:"stock"`
	Status   string `json:"status"`
	Image    string `json:"image"`
}

// ProductInput cuerpo de alta y modificación. Stock es obligatorio al modificar.
type ProductInput struct {
	Name     string `json:"name"`
	Unit     string `json:"unit,omitempty"`
	Category string `json:"category,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Stock    *int   `json:"stock,omitempty"`
	Status   string `json:"status,omitempty"`
	Image    string `json:"image,omitempty"`
}

// StockChange entrada del historial de stock.
type StockChange struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"`
	ChangeDate  string `json:"change_date"`
	UserInfo    string `json:"user_info"`
}

// ImportDuplicate fila omitida por nombre repetido.
type ImportDuplicate struct {
	Name       string `json:"name"`
	ExistingID int64  `json:"existingId"`
}

// ImportResult resumen de una importación CSV.
type ImportResult struct {
	Added      int               `json:"added"`
	Skipped    int               `json:"skipped"`
	Duplicates []ImportDuplicate `json:"duplicates"`
}

// APIError respuesta no 2xx de la API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inventory api: status %d", e.Status)
	}
	return fmt.Sprintf("inventory api: status %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Config opciones del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente resty de la API de productos.
type Client struct {
	http *resty.Client
}

// NewClient construye el cliente. Timeout por defecto: 15s.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: rc}
}

func productPath(id int64) string {
	return "/api/products/" + strconv.FormatInt(id, 10)
}

// List productos cuyo nombre contiene name; name vacío lista todos.
func (c *Client) List(ctx context.Context, name string) ([]Product, error) {
	var out []Product
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if name != "" {
		req.SetQueryParam("name", name)
	}
	if err := send(req, resty.MethodGet, "/api/products", "list products"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

// Get un producto por ID.
func (c *Client) Get(ctx context.Context, id int64) (*Product, error) {
	out := new(Product)
	req := c.http.R().SetContext(ctx).SetResult(out)
	if err := send(req, resty.MethodGet, productPath(id), "get product"); err != nil {
		return nil, err
	}
	return out, nil
}

// Create da de alta un producto.
func (c *Client) Create(ctx context.Context, in ProductInput) (*Product, error) {
	out := new(Product)
	req := c.http.R().SetContext(ctx).SetBody(in).SetResult(out)
	if err := send(req, resty.MethodPost, "/api/products", "create product"); err != nil {
		return nil, err
	}
	return out, nil
}

// Update reemplaza los campos del producto.
func (c *Client) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	out := new(Product)
	req := c.http.R().SetContext(ctx).SetBody(in).SetResult(out)
	if err := send(req, resty.MethodPut, productPath(id), "update product"); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete borra el producto y su historial.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return send(c.http.R().SetContext(ctx), resty.MethodDelete, productPath(id), "delete product")
}

// History historial de stock, más reciente primero.
func (c *Client) History(ctx context.Context, id int64) ([]StockChange, error) {
	var out []StockChange
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if err := send(req, resty.MethodGet, productPath(id)+"/history", "product history"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []StockChange{}
	}
	return out, nil
}

// Import sube r como archivo CSV (campo csvFile).
func (c *Client) Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	out := new(ImportResult)
	req := c.http.R().SetContext(ctx).
		SetFileReader("csvFile", filename, r).
		SetResult(out)
	if err := send(req, resty.MethodPost, "/api/products/import", "import products"); err != nil {
		return nil, err
	}
	return out, nil
}

// Export descarga el CSV de todos los productos.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	req := c.http.R().SetContext(ctx).SetHeader("Accept", "text/csv").SetError(&errorBody{})
	resp, err := req.Get("/api/products/export")
	if err != nil {
		return nil, fmt.Errorf("export products: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resp.Body(), nil
}

func send(req *resty.Request, method, url, op string) error {
	req.SetError(&errorBody{})
	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	out := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		out.Message = body.Error
		out.Code = body.Code
	}
	return out
}
