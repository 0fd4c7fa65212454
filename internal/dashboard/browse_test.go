package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockdesk/internal/dashboard"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

func itemWithImages(name string, images ...string) model.OrderItem {
	return model.OrderItem{
		Stock:    model.Stock{Product: model.Product{Name: name, Images: images}},
		Quantity: 1,
	}
}

func TestBrowser(t *testing.T) {
	t.Run("Should wrap around three items", func(t *testing.T) {
		b := dashboard.NewBrowser([]model.OrderItem{
			itemWithImages("a"), itemWithImages("b"), itemWithImages("c"),
		})

		for range 3 {
			b.NextItem()
		}
		assert.Equal(t, 0, b.ItemIndex())

		b.PrevItem()
		assert.Equal(t, 2, b.ItemIndex())

		item, ok := b.Item()
		require.True(t, ok)
		assert.Equal(t, "c", item.Stock.Product.Name)
	})

	t.Run("Should not move a single item", func(t *testing.T) {
		b := dashboard.NewBrowser([]model.OrderItem{itemWithImages("a", "1.png")})

		b.NextItem()
		b.PrevItem()
		b.NextImage()
		b.PrevImage()

		assert.Equal(t, 0, b.ItemIndex())
		assert.Equal(t, 0, b.ImageIndex())
	})

	t.Run("Should reset image when item changes", func(t *testing.T) {
		b := dashboard.NewBrowser([]model.OrderItem{
			itemWithImages("a", "a1", "a2", "a3"),
			itemWithImages("b", "b1", "b2"),
		})

		b.NextImage()
		b.NextImage()
		img, ok := b.Image()
		require.True(t, ok)
		assert.Equal(t, "a3", img)

		b.NextImage()
		assert.Equal(t, 0, b.ImageIndex())

		b.PrevImage()
		assert.Equal(t, 2, b.ImageIndex())

		b.NextItem()
		assert.Equal(t, 1, b.ItemIndex())
		assert.Equal(t, 0, b.ImageIndex())
		assert.Equal(t, 2, b.ImageCount())
	})

	t.Run("Should handle empty order and missing images", func(t *testing.T) {
		b := dashboard.NewBrowser(nil)
		b.NextItem()
		b.NextImage()

		_, ok := b.Item()
		assert.False(t, ok)
		_, ok = b.Image()
		assert.False(t, ok)

		b = dashboard.NewBrowser([]model.OrderItem{itemWithImages("a")})
		_, ok = b.Image()
		assert.False(t, ok)
	})

	t.Run("Should clamp out of range seek", func(t *testing.T) {
		b := dashboard.NewBrowser([]model.OrderItem{
			itemWithImages("a", "a1"),
			itemWithImages("b", "b1", "b2"),
		})

		b.Seek(1, 1)
		assert.Equal(t, 1, b.ItemIndex())
		assert.Equal(t, 1, b.ImageIndex())

		b.Seek(5, -1)
		assert.Equal(t, 0, b.ItemIndex())
		assert.Equal(t, 0, b.ImageIndex())
	})
}
