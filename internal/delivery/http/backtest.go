package http

import (
	"net/http"
	"strconv"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/backtest")
	backtestGroup.POST("", h.runBacktest)
	backtestGroup.GET("/runs", h.listBacktestRuns)
	backtestGroup.GET("/runs/:id", h.getBacktestRun)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.BacktestService.RunBacktest(ctx, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to run backtest"})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) listBacktestRuns(c echo.Context) error {
	ctx := c.Request().Context()

	param := model.ListBacktestRunParam{}
	if symbol := c.QueryParam("symbol"); symbol != "" {
		param.Symbol = &symbol
	}
	if interval := c.QueryParam("interval"); interval != "" {
		param.Interval = &interval
	}
	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		param.Limit = n
	}

	runs, err := h.service.BacktestService.ListRuns(ctx, param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list backtest runs"})
	}

	return c.JSON(http.StatusOK, runs)
}

func (h *HttpAPIHandler) getBacktestRun(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid run id"})
	}

	run, err := h.service.BacktestService.GetRun(ctx, uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "backtest run not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get backtest run"})
	}

	return c.JSON(http.StatusOK, run)
}
