package http

import (
	"errors"
	"net/http"

	"golang-quant/internal/dto"
	"golang-quant/internal/risk"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupRisk(base *echo.Group) {
	riskGroup := base.Group("/risk")
	riskGroup.POST("/position-size", h.calculatePositionSize)
	riskGroup.GET("/portfolio/:exchange", h.assessPortfolio)
	riskGroup.GET("/limits", h.getRiskLimits)
	riskGroup.PATCH("/limits", h.updateRiskLimits)
}

func (h *HttpAPIHandler) calculatePositionSize(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.PositionSizeRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.TradingService.CalculatePositionSize(ctx, *req)
	if err != nil {
		if errors.Is(err, risk.ErrMalformedInput) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to calculate position size"})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) assessPortfolio(c echo.Context) error {
	ctx := c.Request().Context()

	assessment, err := h.service.TradingService.AssessPortfolio(ctx, c.Param("exchange"))
	if err != nil {
		switch {
		case errors.Is(err, risk.ErrMalformedInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, assessment)
}

func (h *HttpAPIHandler) getRiskLimits(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.RiskManager.Limits())
}

func (h *HttpAPIHandler) updateRiskLimits(c echo.Context) error {
	changes := map[string]float64{}
	if err := c.Bind(&changes); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	h.service.RiskManager.UpdateLimits(changes)
	return c.JSON(http.StatusOK, h.service.RiskManager.Limits())
}
