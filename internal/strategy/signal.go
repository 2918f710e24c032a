package strategy

import (
	"fmt"
	"golang-quant/internal/dto"
)

// GenerateSignals evaluates the configured rule families over an indicator
// frame and returns one signal per row. Each family is an independent overlay;
// they apply in the fixed order SMA, RSI, MACD, and a later overlay overwrites
// whatever an earlier one put on the same row.
func GenerateSignals(frame *dto.IndicatorFrame, params dto.StrategyParams) ([]dto.Signal, error) {
	signals := make([]dto.Signal, frame.Len())

	if params.SMA != nil {
		if err := applySMACross(frame, *params.SMA, signals); err != nil {
			return nil, err
		}
	}
	if params.RSI != nil {
		if err := applyRSIBand(frame, *params.RSI, signals); err != nil {
			return nil, err
		}
	}
	if params.MACD != nil {
		if err := applyMACDCross(frame, *params.MACD, signals); err != nil {
			return nil, err
		}
	}

	return signals, nil
}

// applySMACross enters when the fast average crosses above the slow one (above
// on this row, at-or-below on the previous) and exits on the symmetric
// cross-under.
func applySMACross(frame *dto.IndicatorFrame, params dto.SMACrossParams, signals []dto.Signal) error {
	fast := frame.Column(fmt.Sprintf("sma_%d", params.FastPeriod))
	slow := frame.Column(fmt.Sprintf("sma_%d", params.SlowPeriod))
	if fast == nil || slow == nil {
		return fmt.Errorf("frame is missing sma_%d or sma_%d", params.FastPeriod, params.SlowPeriod)
	}

	for i := 1; i < frame.Len(); i++ {
		if fast[i] > slow[i] && fast[i-1] <= slow[i-1] {
			signals[i] = dto.SignalEnterLong
		} else if fast[i] < slow[i] && fast[i-1] >= slow[i-1] {
			signals[i] = dto.SignalExitLong
		}
	}
	return nil
}

// applyRSIBand enters when RSI crosses below the oversold band and exits when
// it crosses above the overbought band.
func applyRSIBand(frame *dto.IndicatorFrame, params dto.RSIBandParams, signals []dto.Signal) error {
	col := frame.Column("rsi")
	if col == nil {
		return fmt.Errorf("frame is missing rsi column")
	}

	for i := 1; i < frame.Len(); i++ {
		if col[i] < params.Oversold && col[i-1] >= params.Oversold {
			signals[i] = dto.SignalEnterLong
		} else if col[i] > params.Overbought && col[i-1] <= params.Overbought {
			signals[i] = dto.SignalExitLong
		}
	}
	return nil
}

// applyMACDCross enters on the MACD line crossing above its signal line and
// exits on the cross-under.
func applyMACDCross(frame *dto.IndicatorFrame, params dto.MACDCrossParams, signals []dto.Signal) error {
	macd := frame.Column("macd")
	signal := frame.Column("macd_signal")
	if macd == nil || signal == nil {
		return fmt.Errorf("frame is missing macd or macd_signal column")
	}

	for i := 1; i < frame.Len(); i++ {
		if macd[i] > signal[i] && macd[i-1] <= signal[i-1] {
			signals[i] = dto.SignalEnterLong
		} else if macd[i] < signal[i] && macd[i-1] >= signal[i-1] {
			signals[i] = dto.SignalExitLong
		}
	}
	return nil
}
