package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	kopi  = Item{ProductID: "p1", Name: "Kopi Susu", Price: 18000, Stock: 3}
	teh   = Item{ProductID: "p2", Name: "Es Teh Manis", Price: 8000, Stock: 100}
	habis = Item{ProductID: "p3", Name: "Nasi Goreng", Price: 25000, Stock: 0}
)

func TestAdd(t *testing.T) {
	t.Run("repeated add increments one line", func(t *testing.T) {
		c := New("acc")
		assert.True(t, c.Add(teh))
		assert.True(t, c.Add(teh))

		lines := c.Lines()
		assert.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("capped at stock", func(t *testing.T) {
		c := New("acc")
		for i := 0; i < 10; i++ {
			c.Add(kopi)
		}
		assert.Equal(t, 3, c.Quantity("p1"))
		assert.False(t, c.Add(kopi), "add at cap is a no-op")
	})

	t.Run("out of stock item is never added", func(t *testing.T) {
		c := New("acc")
		assert.False(t, c.Add(habis))
		assert.True(t, c.Empty())
	})

	t.Run("fresher snapshot lowers the cap but keeps price", func(t *testing.T) {
		c := New("acc")
		c.Add(kopi)
		c.Add(kopi)
		c.Add(kopi)

		cheaper := kopi
		cheaper.Price = 1
		cheaper.Stock = 2
		assert.False(t, c.Add(cheaper))

		lines := c.Lines()
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, int64(18000), lines[0].Item.Price)
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		c := New("acc")
		c.Add(teh)
		c.Add(kopi)
		c.Add(teh)

		lines := c.Lines()
		assert.Equal(t, "p2", lines[0].Item.ProductID)
		assert.Equal(t, "p1", lines[1].Item.ProductID)
	})
}

func TestSetQuantity(t *testing.T) {
	t.Run("clamps to stock", func(t *testing.T) {
		c := New("acc")
		c.Add(kopi)
		c.SetQuantity("p1", 50)
		assert.Equal(t, 3, c.Quantity("p1"))
	})

	t.Run("below one removes", func(t *testing.T) {
		c := New("acc")
		c.Add(kopi)
		c.SetQuantity("p1", 0)
		assert.True(t, c.Empty())

		c.Add(kopi)
		c.SetQuantity("p1", -7)
		assert.True(t, c.Empty())
	})

	t.Run("unknown product ignored", func(t *testing.T) {
		c := New("acc")
		c.SetQuantity("ghost", 4)
		assert.True(t, c.Empty())
	})
}

func TestRemoveAndClear(t *testing.T) {
	c := New("acc")
	c.Add(kopi)
	c.Add(teh)

	c.Remove("p1")
	c.Remove("p1")
	assert.Equal(t, 0, c.Quantity("p1"))
	assert.Equal(t, 1, c.Count())

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, int64(0), c.Total())
}

func TestTotalAndCount(t *testing.T) {
	c := New("acc")
	c.Add(kopi)
	c.Add(kopi)
	c.Add(teh)

	assert.Equal(t, int64(2*18000+8000), c.Total())
	assert.Equal(t, 3, c.Count())
}

func TestLinesAndCloneAreCopies(t *testing.T) {
	c := New("acc")
	c.Add(teh)

	lines := c.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Quantity("p2"))

	cp := c.Clone()
	cp.Add(teh)
	assert.Equal(t, 1, c.Quantity("p2"))
	assert.Equal(t, 2, cp.Quantity("p2"))
}
