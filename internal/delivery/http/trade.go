package http

import (
	"errors"
	"net/http"

	"golang-quant/internal/dto"
	"golang-quant/internal/exchange"
	"golang-quant/internal/risk"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTrade(base *echo.Group) {
	tradeGroup := base.Group("/trade")
	tradeGroup.POST("", h.executeTrade)
}

func (h *HttpAPIHandler) executeTrade(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.TradeExecutionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.TradingService.ExecuteTrade(ctx, *req)
	if err != nil {
		switch {
		case errors.Is(err, exchange.ErrUnsupportedExchange), errors.Is(err, risk.ErrMalformedInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, result)
}
