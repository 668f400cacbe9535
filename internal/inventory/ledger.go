package inventory

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ariefcatur/go-store-orders/internal/orders"
)

// Ledger tracks per-product stock. All mutations go through one mutex, which
// is the global ordering lock for reservations.
type Ledger struct {
	mu       sync.RWMutex
	products map[orders.ProductID]*orders.Product
	nextID   orders.ProductID
}

func NewLedger() *Ledger {
	return &Ledger{products: make(map[orders.ProductID]*orders.Product)}
}

// Add registers a product and assigns the next sequential id.
func (l *Ledger) Add(name string, priceCents int64, stock int) (orders.Product, error) {
	if priceCents < 0 || stock < 0 {
		return orders.Product{}, fmt.Errorf("product %q: price and stock must be non-negative", name)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	p := &orders.Product{ID: l.nextID, Name: name, PriceCents: priceCents, Stock: stock}
	l.products[p.ID] = p
	return *p, nil
}

// Put registers a product under its own id, replacing any previous entry.
// Used when seeding from catalog storage.
func (l *Ledger) Put(p orders.Product) error {
	if p.ID <= 0 || p.PriceCents < 0 || p.Stock < 0 {
		return fmt.Errorf("product %d: invalid catalog entry", p.ID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := p
	l.products[p.ID] = &cp
	if p.ID > l.nextID {
		l.nextID = p.ID
	}
	return nil
}

// Product is the read-only catalog lookup.
func (l *Ledger) Product(id orders.ProductID) (orders.Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.products[id]
	if !ok {
		return orders.Product{}, fmt.Errorf("%w: %d", orders.ErrUnknownProduct, id)
	}
	return *p, nil
}

func (l *Ledger) Products() []orders.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]orders.Product, 0, len(l.products))
	for _, p := range l.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Ledger) Stock(id orders.ProductID) (int, error) {
	p, err := l.Product(id)
	return p.Stock, err
}

// Quote returns the monetary total of items in cents.
func (l *Ledger) Quote(items []orders.Item) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total int64
	for _, it := range items {
		p, ok := l.products[it.ProductID]
		if !ok {
			return 0, fmt.Errorf("%w: %d", orders.ErrUnknownProduct, it.ProductID)
		}
		line, ok := mulCents(p.PriceCents, it.Qty)
		if !ok || total > math.MaxInt64-line {
			return 0, fmt.Errorf("%w: order total overflows", orders.ErrInvalidItems)
		}
		total += line
	}
	return total, nil
}

func (l *Ledger) Reserve(id orders.ProductID, qty int) error {
	return l.ReserveAll([]orders.Item{{ProductID: id, Qty: qty}})
}

// ReserveAll checks every line before decrementing any stock. Lines for the
// same product are summed.
func (l *Ledger) ReserveAll(items []orders.Item) error {
	want, err := sumByProduct(items)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range sortedIDs(want) {
		p, ok := l.products[id]
		if !ok {
			return fmt.Errorf("%w: %d", orders.ErrUnknownProduct, id)
		}
		if p.Stock < want[id] {
			return &orders.StockShortage{ProductID: id, Required: want[id], Available: p.Stock}
		}
	}
	for id, qty := range want {
		p := l.products[id]
		p.Stock -= qty
		if p.Stock < 0 {
			panic(fmt.Sprintf("inventory: stock of product %d went negative", id))
		}
	}
	return nil
}

// Release returns qty to stock. There is no upper bound, so it doubles as
// restock.
func (l *Ledger) Release(id orders.ProductID, qty int) error {
	return l.ReleaseAll([]orders.Item{{ProductID: id, Qty: qty}})
}

func (l *Ledger) ReleaseAll(items []orders.Item) error {
	back, err := sumByProduct(items)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for id := range back {
		if _, ok := l.products[id]; !ok {
			return fmt.Errorf("%w: %d", orders.ErrUnknownProduct, id)
		}
	}
	for id, qty := range back {
		l.products[id].Stock += qty
	}
	return nil
}

// mulCents reports false when price*qty does not fit in int64.
func mulCents(price int64, qty int) (int64, bool) {
	if price < 0 || qty < 0 {
		return 0, false
	}
	if price != 0 && int64(qty) > math.MaxInt64/price {
		return 0, false
	}
	return price * int64(qty), true
}

func sumByProduct(items []orders.Item) (map[orders.ProductID]int, error) {
	out := make(map[orders.ProductID]int, len(items))
	for _, it := range items {
		if it.Qty <= 0 {
			return nil, fmt.Errorf("%w: invalid qty %d for product %d", orders.ErrInvalidItems, it.Qty, it.ProductID)
		}
		out[it.ProductID] += it.Qty
	}
	return out, nil
}

// sortedIDs keeps rejection reporting deterministic.
func sortedIDs(m map[orders.ProductID]int) []orders.ProductID {
	ids := make([]orders.ProductID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
