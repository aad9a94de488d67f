package cart

import (
	"math"
	"testing"

	"github.com/aloepure/storefront/internal/domain"
)

func TestCart_AddItem(t *testing.T) {
	t.Run("adds a new line item", func(t *testing.T) {
		c := New()
		c.AddItem(domain.CartItem{ID: "prod-001", Title: "Aloe Vera Gel", Price: 19.99, Quantity: 1})

		items := c.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Quantity != 1 {
			t.Errorf("expected quantity 1, got %d", items[0].Quantity)
		}
	})

	t.Run("duplicate add increments existing quantity", func(t *testing.T) {
		c := New()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 1})
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 2})

		items := c.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 merged line, got %d", len(items))
		}
		if items[0].Quantity != 3 {
			t.Errorf("expected quantity 3, got %d", items[0].Quantity)
		}
	})

	t.Run("zero quantity is treated as one", func(t *testing.T) {
		c := New()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99})

		if got := c.Items()[0].Quantity; got != 1 {
			t.Errorf("expected quantity 1, got %d", got)
		}
	})
}

func TestCart_UpdateQuantity(t *testing.T) {
	t.Run("sets the new quantity", func(t *testing.T) {
		c := New()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 1})
		c.UpdateQuantity("prod-001", 5)

		if got := c.Items()[0].Quantity; got != 5 {
			t.Errorf("expected quantity 5, got %d", got)
		}
	})

	t.Run("clamps quantities below one", func(t *testing.T) {
		c := New()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 3})
		c.UpdateQuantity("prod-001", 0)

		if got := c.Items()[0].Quantity; got != 1 {
			t.Errorf("expected quantity clamped to 1, got %d", got)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		c := New()
		c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 1})
		c.UpdateQuantity("prod-999", 7)

		if got := c.Items()[0].Quantity; got != 1 {
			t.Errorf("expected quantity 1, got %d", got)
		}
	})
}

func TestCart_RemoveItem(t *testing.T) {
	c := New()
	c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 1})
	c.AddItem(domain.CartItem{ID: "prod-002", Price: 24.99, Quantity: 1})

	c.RemoveItem("prod-001")

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID != "prod-002" {
		t.Errorf("expected prod-002 to remain, got %s", items[0].ID)
	}
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 2})

	c.Clear()

	if len(c.Items()) != 0 {
		t.Errorf("expected empty cart after clear")
	}
	if c.Total() != 0 {
		t.Errorf("expected zero total after clear, got %f", c.Total())
	}
}

func TestCart_Total(t *testing.T) {
	c := New()
	c.AddItem(domain.CartItem{ID: "prod-001", Price: 19.99, Quantity: 2})
	c.AddItem(domain.CartItem{ID: "prod-003", Price: 14.99, Quantity: 1})

	if got, want := c.Total(), 54.97; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected total %f, got %f", want, got)
	}
}

func TestSessions(t *testing.T) {
	s := NewSessions()

	id, c := s.Create()
	if id == "" {
		t.Fatal("expected non-empty session id")
	}

	got, ok := s.Get(id)
	if !ok {
		t.Fatal("expected session to exist")
	}
	if got != c {
		t.Error("expected Get to return the created cart")
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing session to not exist")
	}
}
