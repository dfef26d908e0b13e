package cmd

import (
	"os"
	"strconv"
	"time"
)

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// orEnv returns flagValue when set, otherwise the environment's value for key.
func orEnv(flagValue, key, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return getEnv(key, defaultValue)
}

func orEnvDuration(flagValue time.Duration, key string, defaultValue time.Duration) time.Duration {
	if flagValue != 0 {
		return flagValue
	}
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
