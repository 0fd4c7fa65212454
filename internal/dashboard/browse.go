package dashboard

import "github.com/tuanvumaihuynh/stockdesk/internal/model"

// Browser walks an order's line items and, within the current item, its
// product images. Both walks wrap around; changing the item resets the image.
type Browser struct {
	items []model.OrderItem
	item  int
	image int
}

func NewBrowser(items []model.OrderItem) *Browser {
	return &Browser{items: items}
}

// Seek positions the browser, falling back to 0 for out of range indices.
func (b *Browser) Seek(item, image int) {
	if item < 0 || item >= len(b.items) {
		item = 0
	}
	b.item = item

	if image < 0 || image >= len(b.images()) {
		image = 0
	}
	b.image = image
}

func (b *Browser) NextItem() { b.moveItem(1) }
func (b *Browser) PrevItem() { b.moveItem(-1) }

func (b *Browser) NextImage() { b.image = circular(b.image, len(b.images()), 1) }
func (b *Browser) PrevImage() { b.image = circular(b.image, len(b.images()), -1) }

func (b *Browser) ItemIndex() int  { return b.item }
func (b *Browser) ImageIndex() int { return b.image }
func (b *Browser) ItemCount() int  { return len(b.items) }
func (b *Browser) ImageCount() int { return len(b.images()) }

// Item returns the current line item; ok is false for an empty order.
func (b *Browser) Item() (model.OrderItem, bool) {
	if len(b.items) == 0 {
		return model.OrderItem{}, false
	}
	return b.items[b.item], true
}

// Image returns the current image reference; ok is false when the product has none.
func (b *Browser) Image() (string, bool) {
	imgs := b.images()
	if len(imgs) == 0 {
		return "", false
	}
	return imgs[b.image], true
}

func (b *Browser) moveItem(delta int) {
	next := circular(b.item, len(b.items), delta)
	if next != b.item {
		b.item = next
		b.image = 0
	}
}

func (b *Browser) images() []string {
	if len(b.items) == 0 {
		return nil
	}
	return b.items[b.item].Stock.Product.Images
}

// circular moves i by delta modulo n; sequences of length <= 1 do not move.
func circular(i, n, delta int) int {
	if n <= 1 {
		return i
	}
	return ((i+delta)%n + n) % n
}
