package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Supabase SupabaseConfig
	Postgres PostgresConfig
	Telegram TelegramConfig
	Redis    RedisConfig
	Runner   RunnerConfig
}

type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// PostgresConfig is the optional direct-SQL path to the same Supabase
// database. When URL is empty the store goes through the REST API instead.
type PostgresConfig struct {
	URL string
}

type TelegramConfig struct {
	BotToken  string
	ChatID    string
	ParseMode string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type RunnerConfig struct {
	HTTPTimeout    time.Duration
	TestMessage    string
	SummaryEnabled bool

	// Interval == 0 means one-shot: run once and exit. A positive
	// interval keeps the process looping, for local use only.
	Interval time.Duration
}

func Load() (*Config, error) {
	var errs []error

	supabaseURL, err := requireEnv("SUPABASE_URL")
	errs = append(errs, err)
	supabaseKey, err := requireEnv("SUPABASE_ANON_KEY")
	errs = append(errs, err)
	botToken, err := requireEnv("TELEGRAM_BOT_TOKEN")
	errs = append(errs, err)
	chatID, err := requireEnv("TELEGRAM_CHAT_ID")
	errs = append(errs, err)

	timeoutSec, err := getEnvInt("HTTP_TIMEOUT_SECONDS", 30)
	errs = append(errs, err)
	intervalSec, err := getEnvInt("RUN_INTERVAL_SECONDS", 0)
	errs = append(errs, err)

	redisCfg, err := loadRedisConfig()
	errs = append(errs, err)

	if err := joinErrors(errs); err != nil {
		return nil, err
	}

	cfg := &Config{
		Supabase: SupabaseConfig{
			URL:     supabaseURL,
			AnonKey: supabaseKey,
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Telegram: TelegramConfig{
			BotToken:  botToken,
			ChatID:    chatID,
			ParseMode: getEnv("TELEGRAM_PARSE_MODE", "HTML"),
		},
		Redis: redisCfg,
		Runner: RunnerConfig{
			HTTPTimeout:    time.Duration(timeoutSec) * time.Second,
			TestMessage:    os.Getenv("TEST_MESSAGE"),
			SummaryEnabled: os.Getenv("SUMMARY_ENABLED") == "true",
			Interval:       time.Duration(intervalSec) * time.Second,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRedisConfig() (RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}, nil
	}

	var errs []error
	db, err := getEnvInt("REDIS_DB", 0)
	errs = append(errs, err)
	ttlSec, err := getEnvInt("REDIS_TTL_SECONDS", 86400)
	errs = append(errs, err)

	if err := joinErrors(errs); err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		TTL:      time.Duration(ttlSec) * time.Second,
	}, nil
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Runner.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT_SECONDS must be > 0"))
	}
	if cfg.Runner.Interval < 0 {
		errs = append(errs, errors.New("RUN_INTERVAL_SECONDS must be >= 0"))
	}
	if cfg.Redis.Enabled && cfg.Redis.TTL <= 0 {
		errs = append(errs, errors.New("REDIS_TTL_SECONDS must be > 0"))
	}

	return joinErrors(errs)
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return val, nil
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
	var nonNil []error
	for _, e := range errs {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	return errors.Join(nonNil...)
}
