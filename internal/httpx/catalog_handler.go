package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/ariefcatur/go-store-orders/internal/customers"
	"github.com/ariefcatur/go-store-orders/internal/inventory"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler exposes product and customer registration, restocking and
// loyalty grants.
type CatalogHandler struct {
	Ledger   *inventory.Ledger
	Accounts *customers.Store
}

type CreateProductReq struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Stock      int    `json:"stock"`
}

type CreateCustomerReq struct {
	Name string `json:"name"`
}

type QtyReq struct {
	Qty int `json:"qty"`
}

type PointsReq struct {
	Points int64 `json:"points"`
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Get("/products/{id}", h.getProduct)
	r.Post("/products/{id}/restock", h.restock)

	r.Get("/customers", h.listCustomers)
	r.Post("/customers", h.createCustomer)
	r.Get("/customers/{id}", h.getCustomer)
	r.Post("/customers/{id}/points", h.grantPoints)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Ledger.Products())
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Name == "" {
		badRequest(w, "missing fields")
		return
	}
	p, err := h.Ledger.Add(req.Name, req.PriceCents, req.Stock)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	p, err := h.Ledger.Product(orders.ProductID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) restock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	var req QtyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Qty <= 0 {
		badRequest(w, "qty must be positive")
		return
	}
	if err := h.Ledger.Release(orders.ProductID(id), req.Qty); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.Ledger.Product(orders.ProductID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Accounts.List())
}

func (h *CatalogHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.Name == "" {
		badRequest(w, "missing fields")
		return
	}
	writeJSON(w, http.StatusCreated, h.Accounts.Add(req.Name))
}

func (h *CatalogHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	c, err := h.Accounts.Lookup(orders.CustomerID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) grantPoints(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	var req PointsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Points < 0 {
		badRequest(w, "points must be non-negative")
		return
	}
	if _, err := h.Accounts.Grant(orders.CustomerID(id), req.Points); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.Accounts.Lookup(orders.CustomerID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
