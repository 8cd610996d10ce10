package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"budget/internal/budget"
	"budget/internal/core"
	"budget/internal/stats"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Ledger
	MonthlyBudget     decimal.Decimal
	AggregationPolicy string

	// Anomaly detection
	ZThreshold decimal.Decimal
	Smoothing  decimal.Decimal

	// Health bands, in percent of the monthly budget
	CategoryHighPercent     decimal.Decimal
	CategoryModeratePercent decimal.Decimal
	OverallCriticalPercent  decimal.Decimal
	OverallWarnPercent      decimal.Decimal

	// View cache
	ViewCacheSize int
	ViewCacheTTL  time.Duration

	// AMQP anomaly alerts, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel string
}

func Load() *Config {
	return &Config{
		MonthlyBudget:     getEnvDecimal("MONTHLY_BUDGET", "5000"),
		AggregationPolicy: getEnv("AGGREGATION_POLICY", "transaction"),

		ZThreshold: getEnvDecimal("ANOMALY_Z_THRESHOLD", "2.0"),
		Smoothing:  getEnvDecimal("SMOOTHING", "0.01"),

		CategoryHighPercent:     getEnvDecimal("CATEGORY_HIGH_PERCENT", "50"),
		CategoryModeratePercent: getEnvDecimal("CATEGORY_MODERATE_PERCENT", "30"),
		OverallCriticalPercent:  getEnvDecimal("OVERALL_CRITICAL_PERCENT", "90"),
		OverallWarnPercent:      getEnvDecimal("OVERALL_WARN_PERCENT", "75"),

		ViewCacheSize: getEnvInt("VIEW_CACHE_SIZE", 32),
		ViewCacheTTL:  getEnvDuration("VIEW_CACHE_TTL", 5*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "anomaly_alerts"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validPolicies := []string{"transaction", "change"}
	isValidPolicy := false
	for _, p := range validPolicies {
		if c.AggregationPolicy == p {
			isValidPolicy = true
			break
		}
	}
	if !isValidPolicy {
		errors = append(errors, fmt.Sprintf("invalid aggregation policy '%s': must be one of %v", c.AggregationPolicy, validPolicies))
	}

	if c.Smoothing.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid smoothing %s: must not be negative", c.Smoothing))
	}
	if !c.ZThreshold.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid z-score threshold %s: must be positive", c.ZThreshold))
	}

	if !c.CategoryHighPercent.GreaterThan(c.CategoryModeratePercent) {
		errors = append(errors, fmt.Sprintf("category high band %s must be above moderate band %s", c.CategoryHighPercent, c.CategoryModeratePercent))
	}
	if !c.OverallCriticalPercent.GreaterThan(c.OverallWarnPercent) {
		errors = append(errors, fmt.Sprintf("overall critical band %s must be above warn band %s", c.OverallCriticalPercent, c.OverallWarnPercent))
	}

	if c.ViewCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must be at least 1", c.ViewCacheSize))
	}
	if c.ViewCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid view cache ttl %v: must be positive", c.ViewCacheTTL))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Policy returns the ledger aggregation policy.
func (c *Config) Policy() core.AggregationPolicy {
	return core.AggregationPolicy(c.AggregationPolicy)
}

// Detector returns the anomaly detector constants.
func (c *Config) Detector() stats.Config {
	return stats.Config{Smoothing: c.Smoothing, ZThreshold: c.ZThreshold}
}

// Thresholds returns the budget evaluator bands.
func (c *Config) Thresholds() budget.Thresholds {
	return budget.Thresholds{
		Smoothing:        c.Smoothing,
		CategoryHigh:     c.CategoryHighPercent,
		CategoryModerate: c.CategoryModeratePercent,
		OverallCritical:  c.OverallCriticalPercent,
		OverallWarn:      c.OverallWarnPercent,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}
