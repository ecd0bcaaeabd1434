package domain

import (
	"encoding/json"
	"math"
)

// LineItem is a weak reference to a product plus the quantity held in a cart
//
// swagger:model
type LineItem struct {
	// The id of the referenced product
	//
	// required: true
	Product string `json:"product" bson:"product"`

	// required: true
	// min: 1
	Quantity int `json:"quantity" bson:"quantity"`
}

// Cart holds at most one line item per product
//
// swagger:model
type Cart struct {
	// required: true
	ID string `json:"id" bson:"-"`

	// required: true
	Products []LineItem `json:"products" bson:"products"`
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Products = append([]LineItem{}, c.Products...)
	return &cp
}

// IndexOf returns the position of the line item for productID, or -1
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.Products {
		if item.Product == productID {
			return i
		}
	}
	return -1
}

// MaxQuantity is the largest quantity a single line item can hold
const MaxQuantity = math.MaxInt32

// Add increments the line item for productID, appending one when absent.
// The cart is left unchanged when the line item would exceed MaxQuantity.
func (c *Cart) Add(productID string, quantity int) error {
	i := c.IndexOf(productID)
	if i < 0 {
		if quantity > MaxQuantity {
			return QuantityLimitError(productID)
		}
		c.Products = append(c.Products, LineItem{Product: productID, Quantity: quantity})
		return nil
	}

	if quantity > MaxQuantity-c.Products[i].Quantity {
		return QuantityLimitError(productID)
	}
	c.Products[i].Quantity += quantity
	return nil
}

// QuantityLimitError reports a line item that would grow past MaxQuantity
func QuantityLimitError(productID string) *Error {
	return NewValidationError("quantity", "quantity of %s would exceed %d", productID, MaxQuantity)
}

// Remove drops the line item for productID if present
func (c *Cart) Remove(productID string) {
	if i := c.IndexOf(productID); i >= 0 {
		c.Products = append(c.Products[:i], c.Products[i+1:]...)
	}
}

// MergeLineItems folds duplicate product references into a single line
// item each, keeping first-seen order.
func MergeLineItems(items []LineItem) ([]LineItem, error) {
	merged := &Cart{Products: make([]LineItem, 0, len(items))}
	for _, item := range items {
		if err := merged.Add(item.Product, item.Quantity); err != nil {
			return nil, err
		}
	}
	return merged.Products, nil
}

// DefaultQuantity is used when an add request carries no usable quantity
const DefaultQuantity = 1

// ParseAddQuantity reads the quantity of an add-to-cart request. A missing,
// null, zero or non-numeric value yields DefaultQuantity; negative or
// fractional numbers are rejected.
func ParseAddQuantity(raw json.RawMessage) (int, error) {
	f, ok := decodeNumber(raw)
	if !ok || f == 0 {
		return DefaultQuantity, nil
	}
	return quantityFromFloat(f)
}

// ParseQuantity reads a quantity that must be present and a positive
// integer no larger than MaxQuantity
func ParseQuantity(raw json.RawMessage) (int, error) {
	f, ok := decodeNumber(raw)
	if !ok {
		return 0, NewValidationError("quantity", "quantity must be a positive integer")
	}
	return quantityFromFloat(f)
}

func quantityFromFloat(f float64) (int, error) {
	if f < 1 || f > MaxQuantity || f != math.Trunc(f) {
		return 0, NewValidationError("quantity", "quantity must be a positive integer")
	}
	return int(f), nil
}
