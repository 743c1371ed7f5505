// Package config handles configuration loading and management
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	errEmptyReportFile = errors.New("report file path must not be empty")
	errInvalidPort     = errors.New("port must be between 1 and 65535")
)

// Config holds the application configuration
type Config struct {
	ReportFile   string
	Encoding     string
	MetadataFile string

	ClickhouseHost       string
	ClickhouseNativePort int
	ClickhouseUsername   string
	ClickhousePassword   string
	ClickhouseDatabase   string
	ClickhouseCluster    string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ReportFile:         getEnv(EnvReportFile, DefaultReportFile),
		Encoding:           getEnv(EnvEncoding, DefaultEncoding),
		MetadataFile:       getEnv(EnvMetadataFile, ""),
		ClickhouseHost:     getEnv("CLICKHOUSE_HOST", "localhost"),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseDatabase: getEnv("CLICKHOUSE_DATABASE", DefaultDatabase),
		ClickhouseCluster:  getEnv("CLICKHOUSE_CLUSTER", ""),
	}

	// Parse numeric values
	nativePort, err := strconv.Atoi(getEnv("CLICKHOUSE_NATIVE_PORT", "9000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLICKHOUSE_NATIVE_PORT: %w", err)
	}
	cfg.ClickhouseNativePort = nativePort

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values that cannot be recovered at use time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ReportFile) == "" {
		return errEmptyReportFile
	}

	if c.ClickhouseNativePort < 1 || c.ClickhouseNativePort > 65535 {
		return fmt.Errorf("CLICKHOUSE_NATIVE_PORT %d: %w", c.ClickhouseNativePort, errInvalidPort)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) String() string {
	passwordDisplay := "(not set)"
	if c.ClickhousePassword != "" {
		passwordDisplay = "********"
	}

	clusterDisplay := c.ClickhouseCluster
	if clusterDisplay == "" {
		clusterDisplay = "(single-node)"
	}

	metadataDisplay := c.MetadataFile
	if metadataDisplay == "" {
		metadataDisplay = "(not set)"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Report File:              %s
Report Encoding:          %s
Metadata File:            %s
ClickHouse Host:          %s
ClickHouse Native Port:   %d
ClickHouse Username:      %s
ClickHouse Password:      %s
ClickHouse Database:      %s
ClickHouse Cluster:       %s`,
		c.ReportFile,
		c.Encoding,
		metadataDisplay,
		c.ClickhouseHost,
		c.ClickhouseNativePort,
		c.ClickhouseUsername,
		passwordDisplay,
		c.ClickhouseDatabase,
		clusterDisplay,
	)
}
