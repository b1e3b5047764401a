package enums

import "testing"

func TestOrderStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range OrderStatuses() {
		if !s.IsValid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if OrderStatus("received").IsValid() {
		t.Fatal("local-variant label must not leak into the admin set")
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	got, err := ParseOrderStatus("shipped")
	if err != nil || got != OrderStatusShipped {
		t.Fatalf("expected shipped, got %v (%v)", got, err)
	}
	if _, err := ParseOrderStatus("returned"); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestStockLevelFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		stock int
		want  StockLevel
	}{
		{0, StockLevelOut},
		{-1, StockLevelOut},
		{1, StockLevelLow},
		{9, StockLevelLow},
		{10, StockLevelIn},
		{500, StockLevelIn},
	}
	for _, tc := range cases {
		if got := StockLevelFor(tc.stock); got != tc.want {
			t.Fatalf("stock %d: expected %s, got %s", tc.stock, got, tc.want)
		}
	}
}
