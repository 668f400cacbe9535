// Package seed loads the initial product catalog and customer registry.
package seed

import (
	"fmt"
	"io"
	"os"

	"github.com/ariefcatur/go-store-orders/internal/customers"
	"github.com/ariefcatur/go-store-orders/internal/inventory"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Products  []orders.Product
	Customers []orders.Customer
}

type fileProduct struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	PriceCents int64  `yaml:"price_cents"`
	Stock      int    `yaml:"stock"`
}

type fileCustomer struct {
	ID            int64  `yaml:"id"`
	Name          string `yaml:"name"`
	LoyaltyPoints int64  `yaml:"loyalty_points"`
}

type file struct {
	Products  []fileProduct  `yaml:"products"`
	Customers []fileCustomer `yaml:"customers"`
}

func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, err
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (Catalog, error) {
	var in file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil && err != io.EOF {
		return Catalog{}, fmt.Errorf("decode seed: %w", err)
	}

	var c Catalog
	for _, p := range in.Products {
		c.Products = append(c.Products, orders.Product{
			ID: orders.ProductID(p.ID), Name: p.Name, PriceCents: p.PriceCents, Stock: p.Stock,
		})
	}
	for _, cu := range in.Customers {
		c.Customers = append(c.Customers, orders.Customer{
			ID: orders.CustomerID(cu.ID), Name: cu.Name, LoyaltyPoints: cu.LoyaltyPoints,
		})
	}
	return c, nil
}

// Apply registers every entry, stopping at the first invalid one.
func (c Catalog) Apply(ledger *inventory.Ledger, accounts *customers.Store) error {
	for _, p := range c.Products {
		if err := ledger.Put(p); err != nil {
			return err
		}
	}
	for _, cu := range c.Customers {
		if err := accounts.Put(cu); err != nil {
			return err
		}
	}
	return nil
}

// Merge appends other's entries after c's; later entries win on id clashes.
func (c Catalog) Merge(other Catalog) Catalog {
	return Catalog{
		Products:  append(append([]orders.Product(nil), c.Products...), other.Products...),
		Customers: append(append([]orders.Customer(nil), c.Customers...), other.Customers...),
	}
}
