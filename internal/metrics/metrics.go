// Package metrics converts an equity curve and a list of closed trades into
// a fixed-shape bundle of performance statistics. Everything here is pure and
// deterministic: no I/O, no NaN or Inf in any output.
package metrics

import (
	"math"

	"golang-quant/internal/dto"
)

// OmegaAllGains is the finite sentinel returned by the Omega ratio when the
// sample holds gains but no below-threshold returns. A finite constant keeps
// the bundle serializable where +Inf would not be.
const OmegaAllGains = 1e6

// Compute derives all statistics from one returns series shared across every
// ratio, so Sharpe, Sortino, VaR and the rest stay internally consistent on
// the same input.
func Compute(equity []dto.EquityPoint, trades []dto.ClosedTrade, initialCapital, riskFreeRate float64, periodsPerYear int) dto.MetricsBundle {
	if len(trades) == 0 {
		return dto.MetricsBundle{}
	}

	var wins, losses []float64
	for _, t := range trades {
		if t.PnL > 0 {
			wins = append(wins, t.PnL)
		} else if t.PnL < 0 {
			losses = append(losses, t.PnL)
		}
	}

	bundle := dto.MetricsBundle{
		TotalTrades:   len(trades),
		WinningTrades: len(wins),
		LosingTrades:  len(losses),
		WinRate:       float64(len(wins)) / float64(len(trades)),
	}

	for _, w := range wins {
		bundle.GrossProfit += w
		if w > bundle.LargestWin {
			bundle.LargestWin = w
		}
	}
	for _, l := range losses {
		bundle.GrossLoss += l
		if l < bundle.LargestLoss {
			bundle.LargestLoss = l
		}
	}
	bundle.NetProfit = bundle.GrossProfit + bundle.GrossLoss
	bundle.AvgWin = mean(wins)
	bundle.AvgLoss = mean(losses)

	if len(equity) > 0 && initialCapital > 0 {
		finalBalance := equity[len(equity)-1].Balance
		bundle.TotalReturn = finalBalance - initialCapital
		bundle.TotalReturnPct = bundle.TotalReturn / initialCapital
	}

	returns := Returns(equity)

	bundle.SharpeRatio = SharpeRatio(returns, riskFreeRate, periodsPerYear)
	bundle.SortinoRatio = SortinoRatio(returns, 0, periodsPerYear)

	maxDD, maxDDDuration := MaxDrawdown(equity)
	bundle.MaxDrawdown = maxDD
	bundle.MaxDrawdownDuration = maxDDDuration
	bundle.CalmarRatio = CalmarRatio(returns, maxDD, periodsPerYear)
	bundle.RecoveryFactor = RecoveryFactor(bundle.TotalReturnPct, maxDD)

	bundle.ProfitFactor = ProfitFactor(wins, losses)
	bundle.Expectancy = Expectancy(bundle.WinRate, bundle.AvgWin, bundle.AvgLoss)

	bundle.VaR95 = VaR(returns, 0.95)
	bundle.CVaR95 = CVaR(returns, 0.95)
	bundle.OmegaRatio = OmegaRatio(returns, 0)
	bundle.TailRatio = TailRatio(returns)

	return bundle
}

// Returns is the period-over-period percentage change of the equity curve
// with the first, undefined element dropped.
func Returns(equity []dto.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Balance
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (equity[i].Balance-prev)/prev)
	}
	return returns
}

// SharpeRatio annualizes mean excess return over its standard deviation.
// Empty or zero-variance samples yield 0.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) float64 {
	if len(returns) == 0 {
		return 0
	}

	periodRate := riskFreeRate / float64(periodsPerYear)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - periodRate
	}

	std := stdDev(excess)
	if std == 0 {
		return 0
	}
	return mean(excess) / std * math.Sqrt(float64(periodsPerYear))
}

// SortinoRatio divides mean excess return over the target by the deviation of
// below-target returns only. With no below-target returns it yields 0.
func SortinoRatio(returns []float64, target float64, periodsPerYear int) float64 {
	if len(returns) == 0 {
		return 0
	}

	var downside []float64
	for _, r := range returns {
		if r < target {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return 0
	}

	downsideStd := stdDev(downside)
	if downsideStd == 0 {
		return 0
	}
	return (mean(returns) - target) / downsideStd * math.Sqrt(float64(periodsPerYear))
}

// MaxDrawdown returns the deepest peak-to-trough decline as a negative
// fraction, together with the longest contiguous run of in-drawdown samples.
func MaxDrawdown(equity []dto.EquityPoint) (float64, int) {
	if len(equity) == 0 {
		return 0, 0
	}

	maxDD := 0.0
	maxDuration := 0
	currentDuration := 0
	peak := equity[0].Balance

	for _, point := range equity {
		if point.Balance > peak {
			peak = point.Balance
		}

		drawdown := 0.0
		if peak > 0 {
			drawdown = (point.Balance - peak) / peak
		}
		if drawdown < maxDD {
			maxDD = drawdown
		}

		if drawdown < 0 {
			currentDuration++
			if currentDuration > maxDuration {
				maxDuration = currentDuration
			}
		} else {
			currentDuration = 0
		}
	}

	return maxDD, maxDuration
}

// CalmarRatio is annualized mean return over absolute max drawdown.
func CalmarRatio(returns []float64, maxDrawdown float64, periodsPerYear int) float64 {
	if len(returns) == 0 || maxDrawdown == 0 {
		return 0
	}
	annualized := mean(returns) * float64(periodsPerYear)
	return annualized / math.Abs(maxDrawdown)
}

// ProfitFactor is gross profit over absolute gross loss. A sample without
// both winners and losers yields 0 rather than an unrepresentable infinity.
func ProfitFactor(wins, losses []float64) float64 {
	if len(wins) == 0 || len(losses) == 0 {
		return 0
	}
	grossProfit := 0.0
	for _, w := range wins {
		grossProfit += w
	}
	grossLoss := 0.0
	for _, l := range losses {
		grossLoss += l
	}
	grossLoss = math.Abs(grossLoss)
	if grossLoss == 0 {
		return 0
	}
	return grossProfit / grossLoss
}

// Expectancy is the expected P&L per trade.
func Expectancy(winRate, avgWin, avgLoss float64) float64 {
	return winRate*avgWin - (1-winRate)*math.Abs(avgLoss)
}

// VaR is the (1-confidence) percentile of the returns distribution; at 95%
// confidence that is the 5th percentile.
func VaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return percentile(returns, (1-confidence)*100)
}

// CVaR is the mean of the returns at or below VaR. When no sample lies in
// that tail it degrades to the VaR itself.
func CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	threshold := VaR(returns, confidence)
	var tail []float64
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return threshold
	}
	return mean(tail)
}

// OmegaRatio is the probability-weighted gains over losses relative to the
// threshold. All-gain samples return the OmegaAllGains sentinel.
func OmegaRatio(returns []float64, threshold float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	gains := 0.0
	losses := 0.0
	hasGains := false
	for _, r := range returns {
		if r > threshold {
			gains += r - threshold
			hasGains = true
		} else if r < threshold {
			losses += threshold - r
		}
	}

	if losses == 0 {
		if hasGains {
			return OmegaAllGains
		}
		return 0
	}
	return gains / losses
}

// RecoveryFactor is total return over absolute max drawdown.
func RecoveryFactor(totalReturnPct, maxDrawdown float64) float64 {
	dd := math.Abs(maxDrawdown)
	if dd == 0 {
		return 0
	}
	return totalReturnPct / dd
}

// TailRatio compares the right tail of the returns distribution to the left.
func TailRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	rightTail := percentile(returns, 95)
	leftTail := math.Abs(percentile(returns, 5))
	if leftTail == 0 {
		return 0
	}
	return rightTail / leftTail
}
