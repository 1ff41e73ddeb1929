// Package config handles loading and validating configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"rugscreen/internal/filter"
	"rugscreen/internal/graduation"
)

// Config holds all configuration for the screener.
type Config struct {
	// Data sources
	DexscreenerBaseURL string
	GoplusBaseURL      string
	EVMRPCURL          string
	TargetChains       []string

	// Storage
	PostgresDSN   string
	ClickhouseDSN string

	// Critical filter thresholds
	Thresholds filter.Thresholds

	// Graduation policy
	Graduation graduation.Policy

	// Telegram alerts (optional, disabled when token is empty)
	TelegramBotToken string
	TelegramChatID   int64

	// Paper trading
	PaperTrading    bool
	StartingBalance float64
	MaxPositionUSD  float64
	MaxPositions    int

	// Screening
	TradeSizeUSD float64 // probe size for slippage estimation
	CycleWorkers int     // parallel token evaluations per cycle

	LogLevel string
}

// Load reads configuration from environment variables with fallback to a
// .env file. Priority order: environment variables > .env file > defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DexscreenerBaseURL: getEnv("DEXSCREENER_BASE_URL", "https://api.dexscreener.com"),
		GoplusBaseURL:      getEnv("GOPLUS_BASE_URL", "https://api.gopluslabs.io/api/v1"),
		EVMRPCURL:          getEnv("EVM_RPC_URL", "https://bsc-dataseed.binance.org"),
		TargetChains:       splitList(getEnv("TARGET_CHAINS", "bsc,base,arbitrum,optimism")),

		PostgresDSN:   getEnv("DATABASE_URL", "postgres://localhost:5432/rugscreen"),
		ClickhouseDSN: getEnv("CLICKHOUSE_URL", ""),

		Thresholds: filter.Thresholds{
			AllowHoneypot:         getEnvBool("ALLOW_HONEYPOT", false),
			MinLPLockedPct:        getEnvFloat("MIN_LP_LOCKED_PCT", 30),
			MinConcentrationScore: getEnvFloat("MIN_CONCENTRATION_SCORE", 50),
			MinLiquidityUSD:       getEnvFloat("MIN_LIQUIDITY_USD", 20_000),
			MaxBuyTaxPct:          getEnvFloat("MAX_BUY_TAX_PCT", 10),
			MaxSellTaxPct:         getEnvFloat("MAX_SELL_TAX_PCT", 10),
			AllowMintable:         getEnvBool("ALLOW_MINTABLE", false),
		},

		Graduation: graduation.Policy{
			PassesToGraduate: getEnvInt("PASSES_TO_GRADUATE", 5),
			RefreshInterval:  time.Duration(getEnvInt("GRADUATED_CHECK_INTERVAL_HOURS", 24)) * time.Hour,
			DailyRefreshHour: getEnvInt("DAILY_REFRESH_HOUR", 3),
		},

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		PaperTrading:    getEnvBool("PAPER_TRADING", true),
		StartingBalance: getEnvFloat("PAPER_TRADING_BALANCE", 1000),
		MaxPositionUSD:  getEnvFloat("MAX_POSITION_SIZE", 50),
		MaxPositions:    getEnvInt("MAX_OPEN_POSITIONS", 10),

		TradeSizeUSD: getEnvFloat("TRADE_SIZE_USD", 50),
		CycleWorkers: getEnvInt("CYCLE_WORKERS", 4),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Graduation.PassesToGraduate < 1 {
		return fmt.Errorf("PASSES_TO_GRADUATE must be >= 1, got %d", c.Graduation.PassesToGraduate)
	}
	if c.Graduation.DailyRefreshHour < 0 || c.Graduation.DailyRefreshHour > 23 {
		return fmt.Errorf("DAILY_REFRESH_HOUR must be in [0,23], got %d", c.Graduation.DailyRefreshHour)
	}
	if len(c.TargetChains) == 0 {
		return fmt.Errorf("TARGET_CHAINS must name at least one chain")
	}
	if !c.PaperTrading {
		// Live execution is out of scope; refuse to start without the guard.
		return fmt.Errorf("PAPER_TRADING=false is not supported")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
