package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

type Config struct {
	Server   ServerConfig
	Delivery DeliveryConfig
	Delay    model.DelayWindow
	Report   ReportConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Address string
}

// DeliveryConfig selects the transport: an HTTP gateway URL or an external
// send command. Exactly one must be set.
type DeliveryConfig struct {
	WebhookURL  string
	SendCommand string
}

type ReportConfig struct {
	LogDir     string
	SQLitePath string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

func LoadAll() (*Config, error) {
	var errs []error

	delayMin, err := getEnvInt("DELAY_MIN_SECONDS", model.DefaultWindow.Min)
	if err != nil {
		errs = append(errs, err)
	}
	delayMax, err := getEnvInt("DELAY_MAX_SECONDS", model.DefaultWindow.Max)
	if err != nil {
		errs = append(errs, err)
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Delivery: DeliveryConfig{
			WebhookURL:  os.Getenv("WEBHOOK_URL"),
			SendCommand: os.Getenv("SEND_COMMAND"),
		},
		Delay: model.DelayWindow{
			Min: delayMin,
			Max: delayMax,
		},
		Report: ReportConfig{
			LogDir:     getEnv("LOG_DIR", "logs"),
			SQLitePath: getEnv("SQLITE_PATH", "data/attempts.db"),
		},
		Redis: redisCfg,
	}

	errs = append(errs, validate(cfg)...)

	if err := joinErrors(errs); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRedisConfig() (RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}, nil
	}

	db, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}
	ttlSeconds, err := getEnvInt("REDIS_TTL_SECONDS", 86400)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		TTL:      time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func validate(cfg *Config) []error {
	var errs []error

	if err := cfg.Delay.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("DELAY_MIN_SECONDS/DELAY_MAX_SECONDS: %w", err))
	}
	if cfg.Delivery.WebhookURL == "" && cfg.Delivery.SendCommand == "" {
		errs = append(errs, errors.New("set WEBHOOK_URL or SEND_COMMAND"))
	}
	if cfg.Delivery.WebhookURL != "" && cfg.Delivery.SendCommand != "" {
		errs = append(errs, errors.New("set only one of WEBHOOK_URL and SEND_COMMAND"))
	}
	if cfg.Report.LogDir == "" {
		errs = append(errs, errors.New("LOG_DIR must not be empty"))
	}
	if cfg.Report.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH must not be empty"))
	}

	return errs
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for env %s: %s", key, v)
	}
	return i, nil
}

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
