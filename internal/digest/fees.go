package digest

// FeeRate is the per-contract fee breakdown for one instrument class.
// Immutable once loaded; one value per class per run.
type FeeRate struct {
	ExchangeFee   float64
	ClearingFee   float64
	RegulatoryFee float64
}

// TotalPerContract is the flat fee applied to each contract unit.
func (r FeeRate) TotalPerContract() float64 {
	return r.ExchangeFee + r.ClearingFee + r.RegulatoryFee
}

// RateSet holds the fee rates for the two fee-bearing instrument classes.
type RateSet struct {
	Options FeeRate
	Futures FeeRate
}
