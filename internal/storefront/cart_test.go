package storefront

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/okeetropics/internal/kvstore"
	"github.com/example/okeetropics/internal/models"
)

func produce(name string, price float64) models.Product {
	return models.Product{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		Price:     price,
		Unit:      "lb",
	}
}

func TestAddItemMergesByProductID(t *testing.T) {
	cart := NewCartStore(kvstore.NewMemory())
	mango := produce("Mango", 4.50)
	papaya := produce("Papaya", 6.25)

	require.NoError(t, cart.AddItem(mango, 2))
	require.NoError(t, cart.AddItem(papaya, 1))
	require.NoError(t, cart.AddItem(mango, 3))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, mango.ID, items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, papaya.ID, items[1].ProductID)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCartStore(kvstore.NewMemory())
	mango := produce("Mango", 4.50)

	assert.ErrorIs(t, cart.AddItem(mango, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddItem(mango, -2), ErrInvalidQuantity)
	assert.Zero(t, cart.Len())
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	cart := NewCartStore(kvstore.NewMemory())
	mango := produce("Mango", 4.50)

	require.NoError(t, cart.AddItem(mango, 2))
	require.NoError(t, cart.UpdateQuantity(mango.ID, 7))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestUpdateQuantityErrors(t *testing.T) {
	cart := NewCartStore(kvstore.NewMemory())
	mango := produce("Mango", 4.50)
	require.NoError(t, cart.AddItem(mango, 2))

	assert.ErrorIs(t, cart.UpdateQuantity(uuid.New(), 3), ErrNotFound)
	assert.ErrorIs(t, cart.UpdateQuantity(mango.ID, 0), ErrInvalidQuantity)
	assert.Equal(t, 2, cart.Items()[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	cart := NewCartStore(kvstore.NewMemory())
	mango := produce("Mango", 4.50)
	require.NoError(t, cart.AddItem(mango, 2))

	require.NoError(t, cart.RemoveItem(mango.ID))
	assert.Zero(t, cart.Len())

	// removing an absent product is a no-op
	require.NoError(t, cart.RemoveItem(mango.ID))
}

func TestTotal(t *testing.T) {
	cart := NewCartStore(kvstore.NewMemory())
	assert.Zero(t, cart.Total())

	mango := produce("Mango", 4.50)
	papaya := produce("Papaya", 6.25)
	require.NoError(t, cart.AddItem(mango, 2))
	require.NoError(t, cart.AddItem(papaya, 3))

	assert.InDelta(t, 2*4.50+3*6.25, cart.Total(), 1e-9)

	require.NoError(t, cart.Clear())
	assert.Zero(t, cart.Total())
}

func TestCartPersistsEveryMutation(t *testing.T) {
	storage := kvstore.NewMemory()
	cart := NewCartStore(storage)
	mango := produce("Mango", 4.50)

	require.NoError(t, cart.AddItem(mango, 2))

	data, ok, err := storage.Get("cart")
	require.NoError(t, err)
	require.True(t, ok)

	var persisted []LineItem
	require.NoError(t, json.Unmarshal(data, &persisted))
	if diff := cmp.Diff(cart.Items(), persisted); diff != "" {
		t.Errorf("persisted cart differs from in-memory cart:\n%s", diff)
	}

	// a fresh store over the same storage sees the same cart
	reloaded := NewCartStore(storage)
	if diff := cmp.Diff(cart.Items(), reloaded.Items()); diff != "" {
		t.Errorf("reloaded cart differs:\n%s", diff)
	}
}

func TestCartFailedPersistLeavesStateUnchanged(t *testing.T) {
	storage := kvstore.NewMemory()
	cart := NewCartStore(storage)
	mango := produce("Mango", 4.50)
	require.NoError(t, cart.AddItem(mango, 2))

	storage.SetErr = errors.New("disk full")
	assert.Error(t, cart.AddItem(mango, 1))
	assert.Equal(t, 2, cart.Items()[0].Quantity)

	assert.Error(t, cart.Clear())
	assert.Equal(t, 1, cart.Len())
}
