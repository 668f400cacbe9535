package customers

import (
	"testing"

	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoints_FloorsToWholeUnits(t *testing.T) {
	assert.Equal(t, int64(1129), Points(112998))
	assert.Equal(t, int64(1000), Points(100000))
	assert.Equal(t, int64(0), Points(99))
	assert.Equal(t, int64(0), Points(-500))
}

func TestStore_AccrueAndTier(t *testing.T) {
	s := NewStore(0)
	require.Equal(t, DefaultPriorityThreshold, s.Threshold())

	c := s.Add("Alice")
	assert.Equal(t, orders.LaneRegular, s.Tier(c))

	added, err := s.Accrue(c.ID, 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(99), added)
	c, _ = s.Lookup(c.ID)
	assert.Equal(t, orders.LaneRegular, s.Tier(c))

	_, err = s.Accrue(c.ID, 100)
	require.NoError(t, err)
	c, _ = s.Lookup(c.ID)
	assert.Equal(t, int64(100), c.LoyaltyPoints)
	assert.Equal(t, orders.LanePriority, s.Tier(c), "threshold is inclusive")
}

func TestStore_CustomThreshold(t *testing.T) {
	s := NewStore(500)
	assert.Equal(t, orders.LaneRegular, s.Tier(orders.Customer{LoyaltyPoints: 499}))
	assert.Equal(t, orders.LanePriority, s.Tier(orders.Customer{LoyaltyPoints: 500}))
}

func TestStore_UnknownCustomer(t *testing.T) {
	s := NewStore(100)
	_, err := s.Lookup(1)
	assert.ErrorIs(t, err, orders.ErrUnknownCustomer)
	_, err = s.Accrue(1, 100)
	assert.ErrorIs(t, err, orders.ErrUnknownCustomer)
	assert.ErrorIs(t, s.Revoke(1, 5), orders.ErrUnknownCustomer)
}

func TestStore_RevokeFloorsAtZero(t *testing.T) {
	s := NewStore(100)
	c := s.Add("Bob")
	_, err := s.Grant(c.ID, 30)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(c.ID, 50))
	c, _ = s.Lookup(c.ID)
	assert.Equal(t, int64(0), c.LoyaltyPoints)

	_, err = s.Grant(c.ID, -1)
	assert.Error(t, err)
}

func TestStore_PutAndList(t *testing.T) {
	s := NewStore(100)
	require.NoError(t, s.Put(orders.Customer{ID: 5, Name: "Carol", LoyaltyPoints: 150}))
	assert.Error(t, s.Put(orders.Customer{ID: 0, Name: "Nobody"}))

	d := s.Add("Dave")
	assert.Equal(t, orders.CustomerID(6), d.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Carol", list[0].Name)
	assert.Equal(t, int64(150), list[0].LoyaltyPoints)
}
