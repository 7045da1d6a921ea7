package storefront

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/example/okeetropics/internal/kvstore"
	"github.com/example/okeetropics/internal/models"
)

const cartKey = "cart"

// LineItem is one product-quantity pairing in the cart.
type LineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity"`
}

// CartStore holds the ordered cart line items. Product ids are unique
// within the collection. Every mutation persists the full collection before
// returning; a failed persist leaves the in-memory state unchanged.
//
// The cart is scoped to the storage, not to the identity: logging out does
// not clear it and logging in does not merge anything.
type CartStore struct {
	storage kvstore.Store

	mu    sync.Mutex
	items []LineItem
}

// NewCartStore loads any persisted cart from storage. An unreadable
// persisted cart starts empty rather than failing.
func NewCartStore(storage kvstore.Store) *CartStore {
	c := &CartStore{storage: storage}

	data, ok, err := storage.Get(cartKey)
	if err == nil && ok {
		var items []LineItem
		if json.Unmarshal(data, &items) == nil {
			c.items = items
		}
	}

	return c
}

// AddItem puts quantity units of the product in the cart. When a line for
// the same product already exists its quantity is incremented; the cart
// never holds two lines for one product.
func (c *CartStore) AddItem(product models.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snapshot()
	merged := false
	for i := range next {
		if next[i].ProductID == product.ID {
			next[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
		})
	}

	return c.commit(next)
}

// UpdateQuantity overwrites the line's quantity. It does not accumulate;
// see AddItem for that.
func (c *CartStore) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snapshot()
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = quantity
			return c.commit(next)
		}
	}

	return ErrNotFound
}

// RemoveItem deletes the line for productID. Removing an absent product is
// a no-op.
func (c *CartStore) RemoveItem(productID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snapshot()
	for i := range next {
		if next[i].ProductID == productID {
			next = append(next[:i], next[i+1:]...)
			return c.commit(next)
		}
	}

	return nil
}

// Clear empties the cart.
func (c *CartStore) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(nil)
}

// Total returns the sum of unit price times quantity over all lines. It is
// recomputed on every call; the item counts involved are far too small for
// caching to matter.
func (c *CartStore) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Items returns a copy of the cart lines in insertion order.
func (c *CartStore) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

// Len returns the number of distinct lines.
func (c *CartStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// snapshot copies the current lines. Callers hold c.mu.
func (c *CartStore) snapshot() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// commit persists next and, only on success, makes it the current state.
// Callers hold c.mu.
func (c *CartStore) commit(next []LineItem) error {
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := c.storage.Set(cartKey, data); err != nil {
		return err
	}
	c.items = next
	return nil
}
