package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the aggregate root. FullPrice is kept consistent with the items by
// the service layer: it always equals the rounded sum of price*quantity.
type Cart struct {
	ID        string     `bson:"_id" json:"id"`
	Items     []CartItem `bson:"items" json:"items"`
	FullPrice float64    `bson:"full_price" json:"fullPrice"`
	CreatedAt time.Time  `bson:"created_at" json:"-"`
	UpdatedAt time.Time  `bson:"updated_at" json:"-"`
}

// CartItem snapshots name, image and unit price at the time the product was
// first added. The price is never refreshed from the catalog afterwards.
type CartItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	ImgURL    string  `bson:"img_url" json:"imgUrl"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

func NewCart(id string) *Cart {
	return &Cart{
		ID:    id,
		Items: []CartItem{},
	}
}

// Item returns a pointer into the items slice, or nil when the product is not
// in the cart. Items are unique by product id.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RemoveItem deletes the item for productID and reports whether it was present.
func (c *Cart) RemoveItem(productID string) bool {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// AddPrice accumulates delta into FullPrice, rounding after the step so that
// repeated additions cannot drift away from the rounded sum of the items.
func (c *Cart) AddPrice(delta float64) {
	c.FullPrice = Round2(c.FullPrice + delta)
}

// Clear empties the cart and resets the total.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.FullPrice = 0
}

// Round2 rounds a money amount to 2 fraction digits.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
