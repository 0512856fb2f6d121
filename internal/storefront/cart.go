package storefront

import (
	"context"
	"sync"
)

const (
	cartKey = "cart"

	defaultItemName = "Sản phẩm"
)

// Item is one cart line, stored as the product's id plus the name, price and
// image shown when it was added.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

type CartStore interface {
	Get(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
	Clear(ctx context.Context) error
}

// StorageCartStore keeps the cart as a JSON array under the "cart" key.
type StorageCartStore struct {
	storage Storage
}

func NewStorageCartStore(s Storage) *StorageCartStore {
	return &StorageCartStore{storage: s}
}

func (s *StorageCartStore) Get(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0)
	if _, err := getJSON(ctx, s.storage, cartKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *StorageCartStore) Save(ctx context.Context, items []Item) error {
	return setJSON(ctx, s.storage, cartKey, items)
}

func (s *StorageCartStore) Clear(ctx context.Context) error {
	return s.storage.Delete(ctx, cartKey)
}

// Cart applies edits as read-modify-write cycles on a CartStore.
type Cart struct {
	mu    sync.Mutex
	store CartStore
}

func NewCart(store CartStore) *Cart {
	return &Cart{store: store}
}

func (c *Cart) Items(ctx context.Context) ([]Item, error) {
	return c.store.Get(ctx)
}

// Add puts item in the cart, or bumps the quantity of the line already
// holding the same product. A non-positive quantity counts as one.
func (c *Cart) Add(ctx context.Context, item Item) ([]Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	if i := indexOf(items, item.ProductID); i >= 0 {
		items[i].Quantity += qty
	} else {
		if item.Name == "" {
			item.Name = defaultItemName
		}
		item.Quantity = qty
		items = append(items, item)
	}
	return items, c.store.Save(ctx, items)
}

func (c *Cart) Remove(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.Get(ctx)
	if err != nil {
		return err
	}
	return c.store.Save(ctx, without(items, productID))
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
// Products not in the cart are ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.Get(ctx)
	if err != nil {
		return err
	}
	i := indexOf(items, productID)
	if i < 0 {
		return nil
	}
	if qty <= 0 {
		return c.store.Save(ctx, without(items, productID))
	}
	items[i].Quantity = qty
	return c.store.Save(ctx, items)
}

func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clear(ctx)
}

// Total is the sum of price × quantity over all lines.
func (c *Cart) Total(ctx context.Context) (float64, error) {
	items, err := c.store.Get(ctx)
	if err != nil {
		return 0, err
	}
	return subtotal(items), nil
}

// Count is the number of units in the cart, not the number of lines.
func (c *Cart) Count(ctx context.Context) (int, error) {
	items, err := c.store.Get(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n, nil
}

func subtotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func indexOf(items []Item, productID string) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func without(items []Item, productID string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
