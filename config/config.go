// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// DSN renders the key/value connection string understood by pgx.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type GPTConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type StorageConfig struct {
	Bucket    string
	Region    string
	PublicURL string
}

type PoseConfig struct {
	Endpoint        string
	Architecture    string
	OutputStride    int
	InputResolution int
	QuantBytes      int
	Timeout         time.Duration
}

type Config struct {
	Telegram struct {
		Token string
	}
	DB      DBConfig
	GPT     GPTConfig
	Auth    AuthConfig
	Storage StorageConfig
	Pose    PoseConfig
	Server  struct {
		Port string
	}
	ShutdownTimeout time.Duration
}

// Load loads the configuration
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	// Extension decides the format: config.yaml or config.json.
	v.SetConfigName("config")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")
	v.AddConfigPath("$HOME/.lifesync")

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// No config file: run purely from the environment.
		return fromEnv(), nil
	}

	// Process any ${ENV_VAR} syntax in the config values
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			if envValue := os.Getenv(envVar); envValue != "" {
				v.Set(key, envValue)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ShutdownTimeout", 10*time.Second)
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("DB.Host", "localhost")
	v.SetDefault("DB.Port", "5432")
	v.SetDefault("DB.SSLMode", "disable")
	v.SetDefault("DB.MaxOpenConns", 20)
	v.SetDefault("DB.MaxIdleConns", 10)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)
	v.SetDefault("GPT.Model", defaultModel)
	v.SetDefault("GPT.BaseURL", defaultBaseURL)
	v.SetDefault("GPT.MaxTokens", 300)
	v.SetDefault("GPT.Temperature", 0.7)
	v.SetDefault("Auth.TokenTTL", 72*time.Hour)
	v.SetDefault("Pose.Architecture", "ResNet50")
	v.SetDefault("Pose.OutputStride", 32)
	v.SetDefault("Pose.InputResolution", 256)
	v.SetDefault("Pose.QuantBytes", 2)
	v.SetDefault("Pose.Timeout", 30*time.Second)
}

const (
	defaultModel   = "mistralai/Mistral-7B-Instruct-v0.3"
	defaultBaseURL = "https://router.huggingface.co/v1"
)

func fromEnv() *Config {
	cfg := &Config{}

	cfg.Telegram.Token = os.Getenv("TELEGRAM_TOKEN")
	cfg.DB.Host = getEnvOr("DB_HOST", "localhost")
	cfg.DB.Port = getEnvOr("DB_PORT", "5432")
	cfg.DB.User = getEnvOr("DB_USER", "postgres")
	cfg.DB.Password = getEnvOr("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnvOr("DB_NAME", "lifesync")
	cfg.DB.SSLMode = getEnvOr("DB_SSL_MODE", "disable")
	cfg.DB.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 20)
	cfg.DB.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 10)
	cfg.DB.ConnLifetime = getEnvDuration("DB_CONN_LIFETIME", 5*time.Minute)
	cfg.GPT.APIKey = os.Getenv("GPT_API_KEY")
	cfg.GPT.Model = getEnvOr("GPT_MODEL", defaultModel)
	cfg.GPT.BaseURL = getEnvOr("GPT_BASE_URL", defaultBaseURL)
	cfg.GPT.MaxTokens = getEnvInt("GPT_MAX_TOKENS", 300)
	cfg.GPT.Temperature = 0.7
	if t, err := strconv.ParseFloat(os.Getenv("GPT_TEMPERATURE"), 32); err == nil {
		cfg.GPT.Temperature = float32(t)
	}
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Auth.TokenTTL = getEnvDuration("TOKEN_TTL", 72*time.Hour)
	cfg.Storage.Bucket = os.Getenv("S3_BUCKET")
	cfg.Storage.Region = getEnvOr("S3_REGION", os.Getenv("AWS_REGION"))
	cfg.Storage.PublicURL = os.Getenv("S3_PUBLIC_URL")
	cfg.Pose.Endpoint = os.Getenv("POSE_ENDPOINT")
	cfg.Pose.Architecture = getEnvOr("POSE_ARCHITECTURE", "ResNet50")
	cfg.Pose.OutputStride = getEnvInt("POSE_OUTPUT_STRIDE", 32)
	cfg.Pose.InputResolution = getEnvInt("POSE_INPUT_RESOLUTION", 256)
	cfg.Pose.QuantBytes = getEnvInt("POSE_QUANT_BYTES", 2)
	cfg.Pose.Timeout = getEnvDuration("POSE_TIMEOUT", 30*time.Second)
	cfg.Server.Port = getEnvOr("SERVER_PORT", "8080")
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	return cfg
}

// Helper function to get environment variable with default value
func getEnvOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
