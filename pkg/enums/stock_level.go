package enums

// StockLevel buckets a size's stock count for the admin dashboard.
type StockLevel string

const (
	StockLevelOut StockLevel = "out_of_stock"
	StockLevelLow StockLevel = "low_stock"
	StockLevelIn  StockLevel = "in_stock"
)

const lowStockThreshold = 10

// StockLevelFor buckets a raw stock count.
func StockLevelFor(stock int) StockLevel {
	switch {
	case stock <= 0:
		return StockLevelOut
	case stock < lowStockThreshold:
		return StockLevelLow
	default:
		return StockLevelIn
	}
}
