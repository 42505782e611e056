package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"hwbot/internal/homework/client"
	"hwbot/internal/homework/service"
	appErr "hwbot/pkg/errors"
	"hwbot/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
)

// Environment variables read on startup.
const (
	envPracticumToken    = "PRACTICUM_TOKEN"
	envTelegramToken     = "TELEGRAM_TOKEN"
	envTelegramChatID    = "TELEGRAM_CHAT_ID"
	envPracticumEndpoint = "PRACTICUM_ENDPOINT"
	envLogLevel          = "LOG_LEVEL"
)

// PracticumConfig holds homework API settings.
type PracticumConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token       string        `yaml:"token"`
	ChatID      string        `yaml:"chatId"`
	APIEndpoint string        `yaml:"apiEndpoint"`
	Timeout     time.Duration `yaml:"timeout"`
}

// PollConfig holds poll loop settings.
type PollConfig struct {
	RetryInterval time.Duration `yaml:"retryInterval"`
	Schedule      string        `yaml:"schedule"` // optional cron expression
	InitialCursor int64         `yaml:"initialCursor"`
}

// ServerConfig holds status HTTP server settings. An empty Addr disables it.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	MaxHeaderBytes int           `yaml:"maxHeaderBytes"`
}

// AppConfig holds the bot configuration.
type AppConfig struct {
	Practicum    PracticumConfig `yaml:"practicum"`
	Telegram     TelegramConfig  `yaml:"telegram"`
	Poll         PollConfig      `yaml:"poll"`
	StatusServer ServerConfig    `yaml:"statusServer"`
	Logger       logger.Config   `yaml:"logger"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

// loadAppConfig reads the YAML file at path, then applies environment
// overrides and defaults. A missing file is only an error when required.
func loadAppConfig(path string, required bool, lookupEnv func(string) (string, bool)) (*AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}
	if err := applyEnv(&cfg, lookupEnv); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *AppConfig, lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		value, ok := lookupEnv(key)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	if v, ok := get(envPracticumToken); ok {
		cfg.Practicum.Token = v
	}
	if v, ok := get(envTelegramToken); ok {
		cfg.Telegram.Token = v
	}
	if v, ok := get(envTelegramChatID); ok {
		cfg.Telegram.ChatID = v
	}
	if v, ok := get(envPracticumEndpoint); ok {
		cfg.Practicum.Endpoint = v
	}
	if v, ok := get(envLogLevel); ok {
		cfg.Logger.Level = strings.ToLower(v)
	}
	if cfg.Telegram.ChatID != "" && !strings.HasPrefix(cfg.Telegram.ChatID, "@") {
		if _, err := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64); err != nil {
			return appErr.Wrapf(err, appErr.ConfigInvalid, "%s must be a numeric id or @channel", envTelegramChatID)
		}
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Practicum.Endpoint == "" {
		cfg.Practicum.Endpoint = client.DefaultEndpoint
	}
	if cfg.Practicum.Timeout == 0 {
		cfg.Practicum.Timeout = client.DefaultTimeout
	}
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = client.DefaultTimeout
	}
	if cfg.Poll.RetryInterval == 0 {
		cfg.Poll.RetryInterval = service.DefaultRetryInterval
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "console"
	}
	if cfg.StatusServer.ReadTimeout == 0 {
		cfg.StatusServer.ReadTimeout = defaultReadTimeout
	}
	if cfg.StatusServer.WriteTimeout == 0 {
		cfg.StatusServer.WriteTimeout = defaultWriteTimeout
	}
	if cfg.StatusServer.IdleTimeout == 0 {
		cfg.StatusServer.IdleTimeout = defaultIdleTimeout
	}
	if cfg.StatusServer.MaxHeaderBytes == 0 {
		cfg.StatusServer.MaxHeaderBytes = defaultMaxHeaderBytes
	}
}

// missingCredentials names the required variables that are still empty.
func missingCredentials(cfg *AppConfig) []string {
	var missing []string
	if cfg.Practicum.Token == "" {
		missing = append(missing, envPracticumToken)
	}
	if cfg.Telegram.Token == "" {
		missing = append(missing, envTelegramToken)
	}
	if cfg.Telegram.ChatID == "" {
		missing = append(missing, envTelegramChatID)
	}
	return missing
}

func validateAppConfig(cfg *AppConfig) error {
	if missing := missingCredentials(cfg); len(missing) > 0 {
		return appErr.Newf(appErr.ConfigMissing, "%s: %s", appErr.ConfigMissing.Message(), strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}
	return nil
}
