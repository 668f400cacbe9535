package seed

import (
	"strings"
	"testing"

	"github.com/ariefcatur/go-store-orders/internal/customers"
	"github.com/ariefcatur/go-store-orders/internal/inventory"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
products:
  - id: 1
    name: Laptop
    price_cents: 99999
    stock: 5
  - id: 3
    name: Wireless Headphones
    price_cents: 12999
    stock: 15
customers:
  - id: 2
    name: Bob
    loyalty_points: 150
`

func TestParseAndApply(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, c.Products, 2)
	require.Len(t, c.Customers, 1)

	ledger := inventory.NewLedger()
	accounts := customers.NewStore(customers.DefaultPriorityThreshold)
	require.NoError(t, c.Apply(ledger, accounts))

	p, err := ledger.Product(3)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Headphones", p.Name)
	assert.Equal(t, 15, p.Stock)

	bob, err := accounts.Lookup(2)
	require.NoError(t, err)
	assert.Equal(t, orders.LanePriority, accounts.Tier(bob))

	next, err := ledger.Add("Cable", 500, 1)
	require.NoError(t, err)
	assert.Equal(t, orders.ProductID(4), next.ID)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("products:\n  - id: 1\n    colour: red\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Products)
}

func TestApply_StopsOnInvalidEntry(t *testing.T) {
	c := Catalog{Products: []orders.Product{{ID: 1, Name: "ok", Stock: 1}, {ID: 2, Name: "bad", Stock: -1}}}
	assert.Error(t, c.Apply(inventory.NewLedger(), customers.NewStore(0)))
}

func TestMerge_LaterWins(t *testing.T) {
	base := Catalog{Products: []orders.Product{{ID: 1, Name: "Laptop", Stock: 5}}}
	db := Catalog{Products: []orders.Product{{ID: 1, Name: "Laptop", Stock: 2}}}

	ledger := inventory.NewLedger()
	require.NoError(t, base.Merge(db).Apply(ledger, customers.NewStore(0)))
	n, err := ledger.Stock(1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, base.Products, 1, "merge does not alias its receiver")
}

func TestLoadFile_SampleCatalog(t *testing.T) {
	c, err := LoadFile("../../seed.example.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Products)
	assert.NotEmpty(t, c.Customers)
}
