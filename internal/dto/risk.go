package dto

// Side is the direction of an order or position.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// PositionSizeResult is the outcome of a position-sizing calculation. It is a
// pure computation result; the risk engine never persists it.
type PositionSizeResult struct {
	Quantity        float64  `json:"quantity"`
	EntryPrice      float64  `json:"entry_price"`
	StopLossPrice   float64  `json:"stop_loss_price"`
	TakeProfitPrice *float64 `json:"take_profit_price,omitempty"`
	PositionValue   float64  `json:"position_value"`
	RiskAmount      float64  `json:"risk_amount"`
	RiskPct         float64  `json:"risk_pct"`
	RewardAmount    *float64 `json:"reward_amount,omitempty"`
	RiskRewardRatio *float64 `json:"risk_reward_ratio,omitempty"`
	Approved        bool     `json:"approved"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
}

// OpenPositionStake is the exposure snapshot of one live position, as used by
// the portfolio risk assessment.
type OpenPositionStake struct {
	Symbol     string  `json:"symbol"`
	Value      float64 `json:"value"`
	RiskAmount float64 `json:"risk_amount"`
}

// PortfolioRiskAssessment reports aggregate portfolio exposure and whether a
// candidate position may be opened.
type PortfolioRiskAssessment struct {
	TotalValue       float64 `json:"total_value"`
	AvailableBalance float64 `json:"available_balance"`
	TotalExposure    float64 `json:"total_exposure"`
	ExposurePct      float64 `json:"exposure_pct"`
	OpenPositions    int     `json:"open_positions"`
	TotalRiskAmount  float64 `json:"total_risk_amount"`
	TotalRiskPct     float64 `json:"total_risk_pct"`
	CanOpenPosition  bool    `json:"can_open_position"`
	Reason           string  `json:"reason,omitempty"`
}

// PositionSizeRequest carries the inputs of a sizing calculation. RiskPct and
// TakeProfitPrice are optional; nil means "use the configured default" and
// "no target" respectively.
type PositionSizeRequest struct {
	EntryPrice      float64  `json:"entry_price" validate:"required,gt=0"`
	StopLossPrice   float64  `json:"stop_loss_price" validate:"required,gt=0"`
	PortfolioValue  float64  `json:"portfolio_value" validate:"required,gt=0"`
	RiskPct         *float64 `json:"risk_pct,omitempty"`
	TakeProfitPrice *float64 `json:"take_profit_price,omitempty"`
}

// ValidateTradeRequest carries the inputs of a full trade validation.
type ValidateTradeRequest struct {
	EntryPrice       float64             `json:"entry_price" validate:"required,gt=0"`
	StopLossPrice    *float64            `json:"stop_loss_price,omitempty"`
	TakeProfitPrice  *float64            `json:"take_profit_price,omitempty"`
	Quantity         float64             `json:"quantity" validate:"required,gt=0"`
	PortfolioValue   float64             `json:"portfolio_value" validate:"required,gt=0"`
	AvailableBalance float64             `json:"available_balance" validate:"gte=0"`
	OpenPositions    []OpenPositionStake `json:"open_positions"`
}
