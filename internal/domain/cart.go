package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps a single cart line.
const MaxItemQuantity = 99

type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineTotal is price x quantity, or zero when the product no longer exists.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the snapshot returned by the last fetch of a user's cart items.
type Cart struct {
	UserID string          `json:"userId,omitempty"`
	Items  []CartItem      `json:"items"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// NewCart derives count and total from items.
func NewCart(userID string, items []CartItem) Cart {
	if items == nil {
		items = []CartItem{}
	}
	total := decimal.Zero
	count := 0
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.LineTotal())
	}
	return Cart{
		UserID: userID,
		Items:  items,
		Count:  count,
		Total:  total.Round(2),
	}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
