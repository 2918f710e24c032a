package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger    `mapstructure:"logger"`
	DB        Database  `mapstructure:"database"`
	API       API       `mapstructure:"api"`
	Scheduler Scheduler `mapstructure:"scheduler"`
	Binance   Binance   `mapstructure:"binance"`
	Cache     Cache     `mapstructure:"cache"`
	Backtest  Backtest  `mapstructure:"backtest"`
	Risk      Risk      `mapstructure:"risk"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Scheduler struct {
	MaxConcurrency int            `mapstructure:"max_concurrency"`
	TickInterval   time.Duration  `mapstructure:"tick_interval"`
	Jobs           []ScheduledJob `mapstructure:"jobs"`
}

// ScheduledJob is a backtest that the scheduler runs on a cron expression.
type ScheduledJob struct {
	Name     string `mapstructure:"name"`
	Cron     string `mapstructure:"cron"`
	Symbol   string `mapstructure:"symbol"`
	Interval string `mapstructure:"interval"`
	Lookback string `mapstructure:"lookback"`
}

type Binance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	CandleExpiration  time.Duration `mapstructure:"candle_expiration"`
}

// Backtest holds the default simulation parameters applied when a request
// leaves them unset.
type Backtest struct {
	InitialCapital  float64 `mapstructure:"initial_capital"`
	CommissionRate  float64 `mapstructure:"commission_rate"`
	SlippageRate    float64 `mapstructure:"slippage_rate"`
	PositionSizePct float64 `mapstructure:"position_size_pct"`
	StopLossPct     float64 `mapstructure:"stop_loss_pct"`
	TakeProfitPct   float64 `mapstructure:"take_profit_pct"`
	RiskFreeRate    float64 `mapstructure:"risk_free_rate"`
	PeriodsPerYear  int     `mapstructure:"periods_per_year"`
}

// Risk mirrors risk.Limits so deployments can override the defaults from yaml/env.
type Risk struct {
	MaxPositionSizePct  float64 `mapstructure:"max_position_size_pct"`
	MaxTradeRiskPct     float64 `mapstructure:"max_trade_risk_pct"`
	MaxTotalExposurePct float64 `mapstructure:"max_total_exposure_pct"`
	MaxOpenPositions    int     `mapstructure:"max_open_positions"`
	MaxDrawdownPct      float64 `mapstructure:"max_drawdown_pct"`
	MinRiskRewardRatio  float64 `mapstructure:"min_risk_reward_ratio"`
	DefaultStopLossPct  float64 `mapstructure:"default_stop_loss_pct"`
	DefaultTakeProfit   float64 `mapstructure:"default_take_profit_pct"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("scheduler.max_concurrency", 2)
	viper.SetDefault("scheduler.tick_interval", time.Minute)

	viper.SetDefault("binance.base_url", "https://api.binance.com")
	viper.SetDefault("binance.timeout", 10*time.Second)
	viper.SetDefault("binance.max_request_per_minute", 1200)

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("cache.candle_expiration", time.Minute)

	viper.SetDefault("backtest.initial_capital", 10000.0)
	viper.SetDefault("backtest.commission_rate", 0.001)
	viper.SetDefault("backtest.slippage_rate", 0.0005)
	viper.SetDefault("backtest.position_size_pct", 1.0)
	viper.SetDefault("backtest.stop_loss_pct", 0.02)
	viper.SetDefault("backtest.take_profit_pct", 0.05)
	viper.SetDefault("backtest.risk_free_rate", 0.02)
	// 0 means derive the bar count from the run's interval.
	viper.SetDefault("backtest.periods_per_year", 0)

	viper.SetDefault("risk.max_position_size_pct", 0.10)
	viper.SetDefault("risk.max_trade_risk_pct", 0.02)
	viper.SetDefault("risk.max_total_exposure_pct", 0.95)
	viper.SetDefault("risk.max_open_positions", 10)
	viper.SetDefault("risk.max_drawdown_pct", 0.20)
	viper.SetDefault("risk.min_risk_reward_ratio", 1.5)
	viper.SetDefault("risk.default_stop_loss_pct", 0.02)
	viper.SetDefault("risk.default_take_profit_pct", 0.04)
}
