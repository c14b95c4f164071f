package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log/slog"
	"path/filepath"
	"runtime"
)

type (
	Config struct {
		App  `json:"app"  toml:"app"`
		HTTP `json:"http" toml:"http"`
		Ramp `json:"ramp" toml:"ramp"`
		Chat `json:"chat" toml:"chat"`
		Log  `json:"logger" toml:"logger"`
	}

	App struct {
		Name        string `json:"name"        toml:"name"        env:"APP_NAME"`
		Environment string `json:"environment" toml:"environment" env:"ENV_NAME" env-default:"dev"`
		Debug       bool   `json:"debug"       toml:"debug"       env:"DEBUG"    env-default:"false"`
	}

	HTTP struct {
		Port string `json:"port" toml:"port" env:"HTTP_PORT" env-default:"8080"`
	}

	// Ramp holds the deposit confirmation and polling cadence settings.
	// The confirmation window simulates asynchronous bank settlement and
	// stays configurable so tests can shrink it.
	Ramp struct {
		ConfirmationWindowMs  int `json:"confirmation_window_ms"   toml:"confirmation_window_ms"   env:"RAMP_CONFIRMATION_WINDOW_MS"   env-default:"8000"`
		DepositPollIntervalMs int `json:"deposit_poll_interval_ms" toml:"deposit_poll_interval_ms" env:"RAMP_DEPOSIT_POLL_INTERVAL_MS" env-default:"2500"`
		KYCPollIntervalMs     int `json:"kyc_poll_interval_ms"     toml:"kyc_poll_interval_ms"     env:"RAMP_KYC_POLL_INTERVAL_MS"     env-default:"5000"`
	}

	Chat struct {
		APIKey string `json:"api_key" toml:"api_key" env:"CHAT_API_KEY"`
		APIURL string `json:"api_url" toml:"api_url" env:"CHAT_API_URL" env-default:"https://openrouter.ai/api/v1"`
		Model  string `json:"model"   toml:"model"   env:"CHAT_MODEL"   env-default:"openai/gpt-4o-mini"`
	}

	Log struct {
		Level slog.Level `json:"level" toml:"level" env:"LOG_LEVEL"`
	}
)

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	_, b, _, _ := runtime.Caller(0)
	basePath := filepath.Dir(b)

	configTomlPath := filepath.Join(basePath, "config.toml")
	err := cleanenv.ReadConfig(configTomlPath, cfg)
	if err != nil {
		configJsonPath := filepath.Join(basePath, "config.json")
		err = cleanenv.ReadConfig(configJsonPath, cfg)
		if err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	err = cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("env read error: %w", err)
	}

	return cfg, nil
}
