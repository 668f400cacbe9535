package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-store-orders/internal/engine"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/ariefcatur/go-store-orders/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RejectionObserver is notified of every failed engine call.
type RejectionObserver interface {
	ObserveRejection(err error)
}

type OrdersHandler struct {
	Engine   *engine.Controller
	Cache    *redisx.StatusCache // optional
	Idem     *redisx.Idempotency // optional
	Observer RejectionObserver   // optional
}

type CreateOrderReq struct {
	ExternalID string        `json:"external_id,omitempty"`
	CustomerID int64         `json:"customer_id"`
	Items      []orders.Item `json:"items"`
}

type CreateOrderResp struct {
	Order      orders.Order `json:"order"`
	Idempotent bool         `json:"idempotent"`
}

type HistoryResp struct {
	OrderID orders.OrderID        `json:"order_id"`
	History []orders.HistoryEntry `json:"history"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Post("/orders/dispatch", h.dispatch)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getStatus)
	r.Get("/orders/{id}/history", h.getHistory)
	r.Post("/orders/{id}/complete", h.complete)
	r.Post("/orders/{id}/cancel", h.cancel)
	r.Get("/backlog", h.backlog)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.CustomerID <= 0 || len(req.Items) == 0 {
		badRequest(w, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Idempotency via Redis: the first request claims the external id before
	// admitting; retries get the recorded order or 409 while it is in flight.
	idem := h.Idem != nil && req.ExternalID != ""
	claimed := false
	if idem {
		id, ok, err := h.Idem.Claim(ctx, req.ExternalID)
		switch {
		case errors.Is(err, redisx.ErrAdmissionInFlight):
			writeJSON(w, http.StatusConflict, errorResp{Error: err.Error()})
			return
		case err != nil:
			log.Warn().Err(err).Str("external_id", req.ExternalID).Msg("idempotency claim failed")
		case ok:
			claimed = true
		default:
			if o, err := h.Engine.Get(id); err == nil {
				writeJSON(w, http.StatusOK, CreateOrderResp{Order: o, Idempotent: true})
				return
			}
		}
	}

	o, err := h.Engine.Admit(ctx, orders.CustomerID(req.CustomerID), req.Items)
	if err != nil {
		if claimed {
			if err := h.Idem.Release(ctx, req.ExternalID); err != nil {
				log.Warn().Err(err).Str("external_id", req.ExternalID).Msg("idempotency release failed")
			}
		}
		h.reject(w, err)
		return
	}

	if idem {
		if err := h.Idem.Remember(ctx, req.ExternalID, o.ID); err != nil {
			log.Warn().Err(err).Str("external_id", req.ExternalID).Msg("idempotency store failed")
		}
	}
	writeJSON(w, http.StatusCreated, CreateOrderResp{Order: o})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Orders())
}

func (h *OrdersHandler) dispatch(w http.ResponseWriter, r *http.Request) {
	o, ok, err := h.Engine.Dispatch(r.Context())
	if err != nil {
		h.reject(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	o, err := h.Engine.Get(orders.OrderID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) try cache
	if h.Cache != nil {
		if cs, hit := h.Cache.Get(ctx, orders.OrderID(id)); hit {
			writeJSON(w, http.StatusOK, cs)
			return
		}
	}

	// 2) fall back to the engine
	o, err := h.Engine.Get(orders.OrderID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Cache != nil {
		h.Cache.Set(ctx, o)
	}
	writeJSON(w, http.StatusOK, redisx.CachedStatus{Status: o.Status, UpdatedAt: o.UpdatedAt})
}

func (h *OrdersHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	hist, err := h.Engine.History(orders.OrderID(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResp{OrderID: orders.OrderID(id), History: hist})
}

func (h *OrdersHandler) complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Engine.Complete)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Engine.Cancel)
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request,
	fn func(context.Context, orders.OrderID) (orders.Order, error)) {
	id, ok := idParam(r)
	if !ok {
		badRequest(w, "invalid id")
		return
	}
	o, err := fn(r.Context(), orders.OrderID(id))
	if err != nil {
		h.reject(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) backlog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Backlog())
}

func (h *OrdersHandler) reject(w http.ResponseWriter, err error) {
	if h.Observer != nil {
		h.Observer.ObserveRejection(err)
	}
	writeError(w, err)
}
