package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/aloepure/storefront/internal/domain"
)

// Cart holds one browsing session's line items. It lives for the session
// only; nothing is persisted across restarts.
type Cart struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges by product id: adding an item already in the cart
// increments the existing line's quantity.
func (c *Cart) AddItem(item domain.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}

	c.items = append(c.items, item)
}

// UpdateQuantity clamps quantities below 1 to 1. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
}

// Items returns a snapshot copy of the cart's lines.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total is the cart total in major currency units.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Sessions maps session ids to carts. Carts are created on first use and
// dropped only with the process.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessions() *Sessions {
	return &Sessions{
		carts: make(map[string]*Cart),
	}
}

func (s *Sessions) Create() (string, *Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	c := New()
	s.carts[id] = c
	return id, c
}

func (s *Sessions) Get(id string) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	return c, ok
}
