package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-quant/internal/dto"
	"golang-quant/internal/repository"
	"golang-quant/internal/service"

	"github.com/spf13/cobra"
)

var (
	backtestSymbol   string
	backtestInterval string
	backtestStart    string
	backtestEnd      string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a single backtest and print the result as JSON",
	Run:   RunBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "BTCUSDT", "trading pair symbol")
	backtestCmd.Flags().StringVar(&backtestInterval, "interval", "1d", "candle interval")
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "start date (RFC3339 or 2006-01-02)")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "end date (RFC3339 or 2006-01-02)")
}

func RunBacktest(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start, err := parseDate(backtestStart)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	end, err := parseDate(backtestEnd)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer func() {
		if err := appDep.Close(context.Background()); err != nil {
			log.Printf("Failed to close app dependency: %v", err)
		}
	}()

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.cache, appDep.log)
	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.exchanges)

	result, err := services.BacktestService.RunBacktest(ctx, dto.BacktestRequest{
		Symbol:    backtestSymbol,
		Interval:  backtestInterval,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal result: %v", err)
	}
	fmt.Println(string(out))
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
