package cart

import (
	"testing"

	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

func shirt(size string, qty int) LineItem {
	return LineItem{
		ProductID: "p1",
		Name:      "Oxford Shirt",
		Size:      size,
		UnitPrice: decimal.NewFromInt(1200),
		Quantity:  qty,
	}
}

func TestAddItemMergesSameProductAndSize(t *testing.T) {
	t.Parallel()

	var c Cart
	if err := c.AddItem(shirt("M", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.AddItem(shirt("M", 2)); err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(c.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", c.Items[0].Quantity)
	}
}

func TestAddItemDistinctSizesStaySeparate(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.AddItem(shirt("M", 1))
	_ = c.AddItem(shirt("L", 1))

	if len(c.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(c.Items))
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.AddItem(shirt("M", 3))
	_ = c.AddItem(shirt("L", 2))

	if c.ItemCount() != 5 {
		t.Fatalf("badge count must sum quantities, got %d", c.ItemCount())
	}
}

func TestAddItemRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := map[string]LineItem{
		"missing product": {Size: "M", UnitPrice: decimal.NewFromInt(1), Quantity: 1},
		"missing size":    {ProductID: "p1", UnitPrice: decimal.NewFromInt(1), Quantity: 1},
		"zero quantity":   {ProductID: "p1", Size: "M", UnitPrice: decimal.NewFromInt(1)},
		"negative price":  {ProductID: "p1", Size: "M", UnitPrice: decimal.NewFromInt(-1), Quantity: 1},
	}
	for name, item := range cases {
		var c Cart
		err := c.AddItem(item)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.AddItem(shirt("M", 2))

	if err := c.UpdateQuantity("p1", "M", 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", c.Items)
	}

	_ = c.AddItem(shirt("M", 2))
	if err := c.UpdateQuantity("p1", "M", -3); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("negative quantity must remove the line too")
	}
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	t.Parallel()

	var c Cart
	err := c.UpdateQuantity("p1", "M", 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.AddItem(shirt("M", 1))
	c.RemoveItem("p1", "M")
	c.RemoveItem("p1", "M")

	if !c.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", c.Items)
	}
}

func TestTotalRecomputesFromLines(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.AddItem(shirt("M", 2))
	_ = c.AddItem(LineItem{ProductID: "p2", Name: "Cap", Size: "OS", UnitPrice: decimal.RequireFromString("499.50"), Quantity: 1})

	want := decimal.RequireFromString("2899.50")
	if !c.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, c.Total())
	}

	c.Clear()
	if c.ItemCount() != 0 || !c.Total().Equal(decimal.Zero) {
		t.Fatalf("clear must zero count and total, got %d / %s", c.ItemCount(), c.Total())
	}
}
