package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath  string
	DataDir string

	// PriceTolerance is the amount (in euro) below which an invoiced value
	// is considered equal to the table value.
	PriceTolerance float64

	// VariablePriceCodes lists procedure codes whose price depends on the
	// dispensed item and is never compared (e.g. 6631, medicamentos).
	VariablePriceCodes []string

	LogFormat string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:             getEnv("DB_PATH", filepath.Join(cwd, "data", "adse.db")),
		DataDir:            getEnv("DATA_DIR", filepath.Join(cwd, "data")),
		PriceTolerance:     getEnvFloat("PRICE_TOLERANCE_EUR", 0.01),
		VariablePriceCodes: getEnvList("VARIABLE_PRICE_CODES", []string{"6631"}),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
