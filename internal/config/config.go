// internal/config/config.go
//
// Package config 讀取執行設定：預設值 → YAML 設定檔（可選）→ 環境變數。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	CustomersFile string `yaml:"customers_file"`
	AccountsFile  string `yaml:"accounts_file"`
	HTTPAddr      string `yaml:"http_addr"`
	LogLevel      string `yaml:"log_level"`
	LogDev        bool   `yaml:"log_dev"`
}

// Default 回傳與原始檔名一致的預設設定。
func Default() Config {
	return Config{
		CustomersFile: "users.csv",
		AccountsFile:  "accounts.csv",
		HTTPAddr:      ":8080",
		LogLevel:      "warn",
	}
}

// Load 先套用預設值，若 path 非空則讀取 YAML 設定檔，最後以環境變數覆寫。
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.CustomersFile = getEnv("ACME_CUSTOMERS_FILE", cfg.CustomersFile)
	cfg.AccountsFile = getEnv("ACME_ACCOUNTS_FILE", cfg.AccountsFile)
	cfg.HTTPAddr = getEnv("ACME_HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = getEnv("ACME_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("ACME_LOG_DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("ACME_LOG_DEV: %w", err)
		}
		cfg.LogDev = dev
	}

	return cfg, cfg.Validate()
}

// Validate 檢查必要欄位。
func (c Config) Validate() error {
	var errs []error
	if c.CustomersFile == "" {
		errs = append(errs, errors.New("customers_file is required"))
	}
	if c.AccountsFile == "" {
		errs = append(errs, errors.New("accounts_file is required"))
	}
	if c.CustomersFile != "" && c.CustomersFile == c.AccountsFile {
		errs = append(errs, errors.New("customers_file and accounts_file must differ"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
