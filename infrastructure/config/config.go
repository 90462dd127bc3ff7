// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
)

// Stage identifies the deployment stage.
type Stage string

const (
	StageDev  Stage = "dev"
	StageStg  Stage = "stg"
	StageProd Stage = "prod"
)

// Config holds all application configuration.
type Config struct {
	Region      string
	Stage       Stage
	LogLevel    string
	ServiceName string

	// HTTP server (local mode only)
	ServerAddress string

	// DynamoDB
	ItemsTableName             string
	ClaimsTableName            string
	ClaimsByMemberAndDateIndex string
}

// LoadConfig loads configuration from environment variables, applying
// defaults for anything unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Region:        getEnv("REGION", "us-east-1"),
		Stage:         Stage(getEnv("STAGE", "dev")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ServiceName:   getEnv("SERVICE_NAME", "claims-service"),
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),

		ItemsTableName:             getEnv("ITEMS_TABLE_NAME", "itemsTable"),
		ClaimsTableName:            getEnv("CLAIMS_TABLE_NAME", "claimsTable"),
		ClaimsByMemberAndDateIndex: getEnv("CLAIMS_BY_MEMBER_AND_DATE_INDEX", "claimsByMemberAndDate"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Stage {
	case StageDev, StageStg, StageProd:
	default:
		return fmt.Errorf("invalid STAGE %q (want dev, stg or prod)", c.Stage)
	}
	if c.ItemsTableName == "" {
		return fmt.Errorf("ITEMS_TABLE_NAME is required")
	}
	if c.ClaimsTableName == "" {
		return fmt.Errorf("CLAIMS_TABLE_NAME is required")
	}
	if c.ClaimsByMemberAndDateIndex == "" {
		return fmt.Errorf("CLAIMS_BY_MEMBER_AND_DATE_INDEX is required")
	}
	return nil
}

// IsProduction reports whether the service runs in the prod stage.
func (c *Config) IsProduction() bool {
	return c.Stage == StageProd
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
