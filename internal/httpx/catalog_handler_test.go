package httpx_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ariefcatur/go-store-orders/internal/httpx"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Products(t *testing.T) {
	a := newApp(t)

	resp := a.do(t, http.MethodPost, "/products", httpx.CreateProductReq{Name: "Laptop", PriceCents: 99999, Stock: 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[orders.Product](t, resp)
	assert.Equal(t, orders.ProductID(1), p.ID)

	resp = a.do(t, http.MethodPost, "/products", httpx.CreateProductReq{Name: "Broken", PriceCents: 100, Stock: -2})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/products/1/restock", httpx.QtyReq{Qty: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, decode[orders.Product](t, resp).Stock)

	resp = a.do(t, http.MethodPost, "/products/1/restock", httpx.QtyReq{Qty: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/products/9/restock", httpx.QtyReq{Qty: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/products", nil)
	list := decode[[]orders.Product](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Laptop", list[0].Name)
}

func TestCatalog_Customers(t *testing.T) {
	a := newApp(t)

	resp := a.do(t, http.MethodPost, "/customers", httpx.CreateCustomerReq{Name: "Alice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	c := decode[orders.Customer](t, resp)
	assert.Equal(t, int64(0), c.LoyaltyPoints)

	resp = a.do(t, http.MethodPost, "/customers", httpx.CreateCustomerReq{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/customers/1/points", httpx.PointsReq{Points: 120})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(120), decode[orders.Customer](t, resp).LoyaltyPoints)

	resp = a.do(t, http.MethodPost, "/customers/1/points", httpx.PointsReq{Points: -5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/customers/2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/customers", nil)
	assert.Len(t, decode[[]orders.Customer](t, resp), 1)
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	resp := a.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(string(b)))
}
