package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Data          DataConfig         `mapstructure:"data"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Chatbot       ChatbotConfig      `mapstructure:"chatbot"`
	Alerts        AlertsConfig       `mapstructure:"alerts"`
	Forecast      ForecastConfig     `mapstructure:"forecast"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	AllowedOrigin   string `mapstructure:"allowed_origin"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// DataConfig points at the raw sales/purchase exports loaded at startup.
type DataConfig struct {
	SalesPath     string `mapstructure:"sales_path"`
	PurchasesPath string `mapstructure:"purchases_path"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ChatbotConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	TrainIterations     int     `mapstructure:"train_iterations"`
	LearningRate        float64 `mapstructure:"learning_rate"`
}

type AlertsConfig struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
	ExpiryWindowDays  int `mapstructure:"expiry_window_days"`
}

type ForecastConfig struct {
	HorizonDays int `mapstructure:"horizon_days"`
	CacheTTL    int `mapstructure:"cache_ttl"` // seconds
}

// NotificationConfig holds settings for manager reorder alerts.
type NotificationConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	AWSRegion   string `mapstructure:"aws_region"`
	SNSTopicARN string `mapstructure:"sns_topic_arn"`
	EmailFrom   string `mapstructure:"email_from"`
	EmailTo     string `mapstructure:"email_to"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
