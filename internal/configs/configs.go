/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, and the game economy
and pacing knobs (starting balance, round delay, rematch window).
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Game Settings
	StartingBalance int
	RoundDelay      time.Duration
	RematchWindow   time.Duration
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Game Settings ---
	// StartingBalance
	balanceStr := os.Getenv("STARTING_BALANCE")
	if balanceStr == "" {
		balanceStr = "1000"
	}
	balance, err := strconv.Atoi(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_BALANCE environment variable: %w", err)
	}
	if balance <= 0 {
		return nil, fmt.Errorf("starting balance %d must be a positive number of chips", balance)
	}
	cfg.StartingBalance = balance

	// RoundDelay
	delayStr := os.Getenv("ROUND_DELAY_MS")
	if delayStr == "" {
		delayStr = "2000"
	}
	delayMs, err := strconv.Atoi(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ROUND_DELAY_MS environment variable: %w", err)
	}
	if delayMs < 0 {
		return nil, fmt.Errorf("round delay %dms must not be negative", delayMs)
	}
	cfg.RoundDelay = time.Duration(delayMs) * time.Millisecond

	// RematchWindow
	windowStr := os.Getenv("REMATCH_WINDOW_SEC")
	if windowStr == "" {
		windowStr = "60"
	}
	windowSec, err := strconv.Atoi(windowStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REMATCH_WINDOW_SEC environment variable: %w", err)
	}
	if windowSec <= 0 {
		return nil, fmt.Errorf("rematch window %ds must be a positive number of seconds", windowSec)
	}
	cfg.RematchWindow = time.Duration(windowSec) * time.Second

	return cfg, nil
}
