package cart

import (
	"strings"

	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// LineItem is one cart entry. Two entries are the same line when both the
// product and the chosen size match.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Size      string          `json:"size"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is the item's price contribution.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) sameLine(productID, size string) bool {
	return li.ProductID == productID && li.Size == size
}

// Cart is the pure in-memory cart. All mutation goes through methods so the
// stored state never holds a zero or negative quantity.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddItem merges the quantity into an existing (product, size) line or appends
// a new one.
func (c *Cart) AddItem(item LineItem) error {
	if strings.TrimSpace(item.ProductID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	if strings.TrimSpace(item.Size) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}
	if item.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if item.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	for i := range c.Items {
		if c.Items[i].sameLine(item.ProductID, item.Size) {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// UpdateQuantity sets the quantity on an existing line. A quantity of zero or
// below removes the line entirely.
func (c *Cart) UpdateQuantity(productID, size string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID, size)
		return nil
	}
	for i := range c.Items {
		if c.Items[i].sameLine(productID, size) {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

// RemoveItem drops the matching line. Removing an absent line is a no-op.
func (c *Cart) RemoveItem(productID, size string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !item.sameLine(productID, size) {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// Total recomputes the cart total from the lines on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount sums the quantities across all lines; it drives the cart badge.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.Items = nil
}
