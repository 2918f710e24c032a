package risk

// TakeProfitSpec selects how a take-profit price is derived. The two
// computation paths are distinct variants so a caller cannot conflate a flat
// percentage with a risk/reward-derived distance. The zero value means "use
// the configured default percentage".
type TakeProfitSpec struct {
	kind          tpKind
	pct           float64
	ratio         float64
	stopLossPrice float64
}

type tpKind int

const (
	tpDefault tpKind = iota
	tpPercentage
	tpRiskReward
)

// TakeProfitByPercentage places the target a flat percentage away from entry.
func TakeProfitByPercentage(pct float64) TakeProfitSpec {
	return TakeProfitSpec{kind: tpPercentage, pct: pct}
}

// TakeProfitByRiskReward places the target at ratio times the stop distance
// from entry.
func TakeProfitByRiskReward(ratio, stopLossPrice float64) TakeProfitSpec {
	return TakeProfitSpec{kind: tpRiskReward, ratio: ratio, stopLossPrice: stopLossPrice}
}
