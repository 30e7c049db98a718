package agents

// Ledger accumulates store-level business totals across a run.
// It is only written from the scheduler goroutine.
type Ledger struct {
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	FailedSales  int     `json:"failed_sales"`
	Restocks     int     `json:"restocks"`
	PriceChanges int     `json:"price_changes"`
	Offers       int     `json:"discount_offers"`
}
