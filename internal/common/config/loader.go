package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PHARMACY_SERVER_PORT
	viper.SetEnvPrefix("pharmacy")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when absent
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env in likely locations relative to the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pharmacy-inventory"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Data.SalesPath == "" {
		cfg.Data.SalesPath = "data/pharmacy_sales_noisy.json"
	}
	if cfg.Data.PurchasesPath == "" {
		cfg.Data.PurchasesPath = "data/pharmacy_purchases_noisy.json"
	}
	if cfg.Chatbot.ConfidenceThreshold == 0 {
		cfg.Chatbot.ConfidenceThreshold = 0.35
	}
	if cfg.Chatbot.TrainIterations == 0 {
		cfg.Chatbot.TrainIterations = 500
	}
	if cfg.Chatbot.LearningRate == 0 {
		cfg.Chatbot.LearningRate = 0.5
	}
	if cfg.Alerts.LowStockThreshold == 0 {
		cfg.Alerts.LowStockThreshold = 50
	}
	if cfg.Alerts.ExpiryWindowDays == 0 {
		cfg.Alerts.ExpiryWindowDays = 30
	}
	if cfg.Forecast.HorizonDays == 0 {
		cfg.Forecast.HorizonDays = 30
	}
	if cfg.Forecast.CacheTTL == 0 {
		cfg.Forecast.CacheTTL = 600
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Chatbot.ConfidenceThreshold < 0 || cfg.Chatbot.ConfidenceThreshold > 1 {
		return fmt.Errorf("chatbot.confidence_threshold must be in [0,1]: %f", cfg.Chatbot.ConfidenceThreshold)
	}
	if cfg.Alerts.LowStockThreshold < 0 {
		return fmt.Errorf("alerts.low_stock_threshold must be >= 0")
	}
	if cfg.Notifications.Enabled {
		if cfg.Notifications.AWSRegion == "" {
			return fmt.Errorf("notifications.aws_region required when notifications enabled")
		}
		if cfg.Notifications.SNSTopicARN == "" && cfg.Notifications.EmailTo == "" {
			return fmt.Errorf("notifications enabled but no sns_topic_arn or email_to configured")
		}
	}
	return nil
}
