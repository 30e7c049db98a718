package rules

// Thresholds are the numeric knobs of the default rule set.
// LowStock (rule 4) and Restock (rule 7) are independent and default equal.
type Thresholds struct {
	Premium   float64 `json:"premium_threshold" yaml:"premium_threshold"`
	LowBudget float64 `json:"low_budget_threshold" yaml:"low_budget_threshold"`
	HighValue float64 `json:"high_value_threshold" yaml:"high_value_threshold"`
	LowStock  float64 `json:"low_stock_threshold" yaml:"low_stock_threshold"`
	Overstock float64 `json:"overstock_threshold" yaml:"overstock_threshold"`
	Restock   float64 `json:"restock_threshold" yaml:"restock_threshold"`
}

// DefaultThresholds returns the bookstore defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Premium:   250,
		LowBudget: 100,
		HighValue: 30,
		LowStock:  5,
		Overstock: 30,
		Restock:   5,
	}
}
