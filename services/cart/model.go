package cart

import (
	"time"
)

type Session struct {
	UID string
}

type CartItem struct {
	ProductUID string
	Name       string
	ImageURL   string
	UnitPrice  int64
	Rating     int
	Quantity   int
}

func (i CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

type Cart struct {
	SessionUID   string
	Items        []CartItem
	LastModified time.Time
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

func (c Cart) Quantity() int {
	quantity := 0
	for _, item := range c.Items {
		quantity += item.Quantity
	}
	return quantity
}

func (c Cart) indexOf(productUID string) int {
	for idx, item := range c.Items {
		if item.ProductUID == productUID {
			return idx
		}
	}
	return -1
}

func (c Cart) lineTotal(productUID string) int64 {
	idx := c.indexOf(productUID)
	if idx < 0 {
		return 0
	}
	return c.Items[idx].LineTotal()
}

// Copy returns a cart that shares no item storage with c.
func (c Cart) Copy() Cart {
	c.Items = append([]CartItem{}, c.Items...)
	return c
}

func (c Cart) Summary() Summary {
	return Summary{
		Quantity: c.Quantity(),
		Total:    c.Total(),
	}
}

type Summary struct {
	Quantity int
	Total    int64
}
