// Package risk sizes positions against a risk budget and approves or rejects
// candidate orders against portfolio-level exposure limits. Business-rule
// violations are reported as structured rejection reasons, never as errors;
// only malformed numeric input fails loudly.
package risk

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"golang-quant/internal/dto"
	"golang-quant/pkg/logger"
)

// ErrMalformedInput marks a caller defect: non-finite prices, negative
// quantities, or a zero portfolio value where division is required.
var ErrMalformedInput = errors.New("malformed risk input")

// Manager evaluates sizing and portfolio checks against one Limits instance.
type Manager struct {
	mu     sync.RWMutex
	limits Limits
	log    *logger.Logger
}

func NewManager(limits Limits, log *logger.Logger) *Manager {
	return &Manager{limits: limits, log: log}
}

// Limits returns the current limit set.
func (m *Manager) Limits() Limits {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.limits
}

// UpdateLimits replaces limit fields by name. Unknown names are logged and
// skipped. This is the only mutation a Manager supports.
func (m *Manager) UpdateLimits(changes map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range changes {
		switch key {
		case "max_position_size_pct":
			m.limits.MaxPositionSizePct = value
		case "max_trade_risk_pct":
			m.limits.MaxTradeRiskPct = value
		case "max_total_exposure_pct":
			m.limits.MaxTotalExposurePct = value
		case "max_open_positions":
			m.limits.MaxOpenPositions = int(value)
		case "max_drawdown_pct":
			m.limits.MaxDrawdownPct = value
		case "min_risk_reward_ratio":
			m.limits.MinRiskRewardRatio = value
		case "default_stop_loss_pct":
			m.limits.DefaultStopLossPct = value
		case "default_take_profit_pct":
			m.limits.DefaultTakeProfitPct = value
		default:
			m.log.Warn("Unknown risk limit parameter", logger.StringField("key", key))
			continue
		}
		m.log.Info("Updated risk limit", logger.StringField("key", key), logger.Float64Field("value", value))
	}
}

// CalculatePositionSize sizes a position from the distance between entry and
// stop. The per-trade risk cap and the max-position-size cap are both
// enforced; when the size cap binds, the realized risk is recomputed and may
// come out below the requested percentage.
func (m *Manager) CalculatePositionSize(req dto.PositionSizeRequest) (*dto.PositionSizeResult, error) {
	limits := m.Limits()

	if err := checkFinitePositive("entry price", req.EntryPrice); err != nil {
		return nil, err
	}
	if err := checkFinitePositive("stop-loss price", req.StopLossPrice); err != nil {
		return nil, err
	}
	if err := checkFinitePositive("portfolio value", req.PortfolioValue); err != nil {
		return nil, err
	}
	if req.TakeProfitPrice != nil {
		if err := checkFinitePositive("take-profit price", *req.TakeProfitPrice); err != nil {
			return nil, err
		}
	}

	riskPct := limits.MaxTradeRiskPct
	if req.RiskPct != nil {
		if math.IsNaN(*req.RiskPct) || math.IsInf(*req.RiskPct, 0) || *req.RiskPct <= 0 {
			return nil, fmt.Errorf("%w: risk pct must be a positive finite number", ErrMalformedInput)
		}
		riskPct = *req.RiskPct
		if riskPct > limits.MaxTradeRiskPct {
			m.log.Warn("Requested risk exceeds per-trade limit, clamping",
				logger.Float64Field("requested_pct", riskPct),
				logger.Float64Field("limit_pct", limits.MaxTradeRiskPct))
			riskPct = limits.MaxTradeRiskPct
		}
	}

	result := &dto.PositionSizeResult{
		EntryPrice:      req.EntryPrice,
		StopLossPrice:   req.StopLossPrice,
		TakeProfitPrice: req.TakeProfitPrice,
	}

	riskPerUnit := math.Abs(req.EntryPrice - req.StopLossPrice)
	if riskPerUnit == 0 {
		result.RejectionReason = "stop-loss price equals entry price"
		return result, nil
	}

	maxRiskAmount := req.PortfolioValue * riskPct
	quantity := maxRiskAmount / riskPerUnit
	positionValue := quantity * req.EntryPrice

	actualRiskAmount := maxRiskAmount
	actualRiskPct := riskPct

	maxPositionValue := req.PortfolioValue * limits.MaxPositionSizePct
	if positionValue > maxPositionValue {
		quantity = maxPositionValue / req.EntryPrice
		positionValue = quantity * req.EntryPrice
		actualRiskAmount = quantity * riskPerUnit
		actualRiskPct = actualRiskAmount / req.PortfolioValue
	}

	result.Quantity = quantity
	result.PositionValue = positionValue
	result.RiskAmount = actualRiskAmount
	result.RiskPct = actualRiskPct

	if req.TakeProfitPrice != nil {
		rewardPerUnit := math.Abs(*req.TakeProfitPrice - req.EntryPrice)
		rewardAmount := quantity * rewardPerUnit
		ratio := 0.0
		if actualRiskAmount > 0 {
			ratio = rewardAmount / actualRiskAmount
		}
		result.RewardAmount = &rewardAmount
		result.RiskRewardRatio = &ratio

		if ratio < limits.MinRiskRewardRatio {
			result.RejectionReason = fmt.Sprintf("risk/reward ratio %.2f below minimum %.2f", ratio, limits.MinRiskRewardRatio)
			return result, nil
		}
	}

	result.Approved = true
	return result, nil
}

// CalculateStopLoss places a stop a flat percentage away from entry, below
// for buys and above for sells. A nil pct uses the configured default.
func (m *Manager) CalculateStopLoss(entryPrice float64, side dto.Side, stopLossPct *float64) (float64, error) {
	if err := checkFinitePositive("entry price", entryPrice); err != nil {
		return 0, err
	}

	pct := m.Limits().DefaultStopLossPct
	if stopLossPct != nil {
		if math.IsNaN(*stopLossPct) || math.IsInf(*stopLossPct, 0) || *stopLossPct <= 0 {
			return 0, fmt.Errorf("%w: stop-loss pct must be a positive finite number", ErrMalformedInput)
		}
		pct = *stopLossPct
	}

	if side == dto.SideBuy {
		return entryPrice * (1 - pct), nil
	}
	return entryPrice * (1 + pct), nil
}

// CalculateTakeProfit places a target per the given spec: a flat percentage
// of entry, or a multiple of a known stop distance.
func (m *Manager) CalculateTakeProfit(entryPrice float64, side dto.Side, spec TakeProfitSpec) (float64, error) {
	if err := checkFinitePositive("entry price", entryPrice); err != nil {
		return 0, err
	}

	switch spec.kind {
	case tpRiskReward:
		if err := checkFinitePositive("stop-loss price", spec.stopLossPrice); err != nil {
			return 0, err
		}
		if math.IsNaN(spec.ratio) || math.IsInf(spec.ratio, 0) || spec.ratio <= 0 {
			return 0, fmt.Errorf("%w: risk/reward ratio must be a positive finite number", ErrMalformedInput)
		}
		rewardPerUnit := math.Abs(entryPrice-spec.stopLossPrice) * spec.ratio
		if side == dto.SideBuy {
			return entryPrice + rewardPerUnit, nil
		}
		return entryPrice - rewardPerUnit, nil

	case tpPercentage:
		if math.IsNaN(spec.pct) || math.IsInf(spec.pct, 0) || spec.pct <= 0 {
			return 0, fmt.Errorf("%w: take-profit pct must be a positive finite number", ErrMalformedInput)
		}
		if side == dto.SideBuy {
			return entryPrice * (1 + spec.pct), nil
		}
		return entryPrice * (1 - spec.pct), nil

	default:
		pct := m.Limits().DefaultTakeProfitPct
		if side == dto.SideBuy {
			return entryPrice * (1 + pct), nil
		}
		return entryPrice * (1 - pct), nil
	}
}

// AssessPortfolioRisk summarizes aggregate exposure and, when a candidate
// position value is given, checks in order the max-open-positions limit, the
// projected exposure percentage (equal to the limit is acceptable) and the
// available balance, reporting the first failure.
func (m *Manager) AssessPortfolioRisk(portfolioValue, availableBalance float64, openPositions []dto.OpenPositionStake, newPositionValue *float64) (*dto.PortfolioRiskAssessment, error) {
	limits := m.Limits()

	if err := checkFinitePositive("portfolio value", portfolioValue); err != nil {
		return nil, err
	}
	if math.IsNaN(availableBalance) || math.IsInf(availableBalance, 0) || availableBalance < 0 {
		return nil, fmt.Errorf("%w: available balance must be a non-negative finite number", ErrMalformedInput)
	}
	if newPositionValue != nil {
		if err := checkFinitePositive("new position value", *newPositionValue); err != nil {
			return nil, err
		}
	}

	totalExposure := 0.0
	totalRiskAmount := 0.0
	for _, p := range openPositions {
		totalExposure += p.Value
		totalRiskAmount += p.RiskAmount
	}

	assessment := &dto.PortfolioRiskAssessment{
		TotalValue:       portfolioValue,
		AvailableBalance: availableBalance,
		TotalExposure:    totalExposure,
		ExposurePct:      totalExposure / portfolioValue,
		OpenPositions:    len(openPositions),
		TotalRiskAmount:  totalRiskAmount,
		TotalRiskPct:     totalRiskAmount / portfolioValue,
	}

	if newPositionValue != nil {
		if len(openPositions) >= limits.MaxOpenPositions {
			assessment.Reason = fmt.Sprintf("maximum positions limit reached (%d)", limits.MaxOpenPositions)
			return assessment, nil
		}

		projectedPct := (totalExposure + *newPositionValue) / portfolioValue
		if projectedPct > limits.MaxTotalExposurePct {
			assessment.Reason = fmt.Sprintf("exposure limit exceeded (%.1f%% > %.1f%%)", projectedPct*100, limits.MaxTotalExposurePct*100)
			return assessment, nil
		}

		if *newPositionValue > availableBalance {
			assessment.Reason = fmt.Sprintf("insufficient balance (need %.2f, have %.2f)", *newPositionValue, availableBalance)
			return assessment, nil
		}
	}

	assessment.CanOpenPosition = true
	return assessment, nil
}

// ValidateTrade composes the portfolio assessment and, when a stop is
// provided, the sizing check, returning the first rejection encountered.
func (m *Manager) ValidateTrade(req dto.ValidateTradeRequest) (bool, string, error) {
	if err := checkFinitePositive("entry price", req.EntryPrice); err != nil {
		return false, "", err
	}
	if math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0) || req.Quantity <= 0 {
		return false, "", fmt.Errorf("%w: quantity must be a positive finite number", ErrMalformedInput)
	}

	positionValue := req.Quantity * req.EntryPrice

	assessment, err := m.AssessPortfolioRisk(req.PortfolioValue, req.AvailableBalance, req.OpenPositions, &positionValue)
	if err != nil {
		return false, "", err
	}
	if !assessment.CanOpenPosition {
		return false, assessment.Reason, nil
	}

	if req.StopLossPrice != nil {
		sized, err := m.CalculatePositionSize(dto.PositionSizeRequest{
			EntryPrice:      req.EntryPrice,
			StopLossPrice:   *req.StopLossPrice,
			PortfolioValue:  req.PortfolioValue,
			TakeProfitPrice: req.TakeProfitPrice,
		})
		if err != nil {
			return false, "", err
		}
		if !sized.Approved {
			return false, sized.RejectionReason, nil
		}
	}

	return true, "", nil
}

func checkFinitePositive(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%w: %s must be a positive finite number", ErrMalformedInput, name)
	}
	return nil
}
