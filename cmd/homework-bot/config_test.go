package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hwbot/internal/homework/client"
	"hwbot/internal/homework/service"
	appErr "hwbot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func fullEnv() map[string]string {
	return map[string]string{
		envPracticumToken: "practicum-token",
		envTelegramToken:  "123:abc",
		envTelegramChatID: "42",
	}
}

func TestLoadAppConfigDefaults(t *testing.T) {
	cfg, err := loadAppConfig("", false, envMap(fullEnv()))
	require.NoError(t, err)

	assert.Equal(t, client.DefaultEndpoint, cfg.Practicum.Endpoint)
	assert.Equal(t, client.DefaultTimeout, cfg.Practicum.Timeout)
	assert.Equal(t, service.DefaultRetryInterval, cfg.Poll.RetryInterval)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Empty(t, cfg.StatusServer.Addr)
	assert.NoError(t, validateAppConfig(cfg))
}

func TestLoadAppConfigMissingOptionalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := loadAppConfig(path, false, envMap(fullEnv()))
	assert.NoError(t, err)

	_, err = loadAppConfig(path, true, envMap(fullEnv()))
	assert.Error(t, err)
}

func TestLoadAppConfigYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	data := []byte(`
practicum:
  endpoint: http://localhost:9000/statuses/
  token: from-file
telegram:
  chatId: "-1001"
poll:
  retryInterval: 30s
  schedule: "@every 1m"
statusServer:
  addr: 127.0.0.1:9090
logger:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := loadAppConfig(path, true, envMap(map[string]string{
		envPracticumToken: "from-env",
		envTelegramToken:  "123:abc",
		envLogLevel:       "WARN",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/statuses/", cfg.Practicum.Endpoint)
	assert.Equal(t, "from-env", cfg.Practicum.Token)
	assert.Equal(t, "-1001", cfg.Telegram.ChatID)
	assert.Equal(t, 30*time.Second, cfg.Poll.RetryInterval)
	assert.Equal(t, "@every 1m", cfg.Poll.Schedule)
	assert.Equal(t, "127.0.0.1:9090", cfg.StatusServer.Addr)
	assert.Equal(t, defaultReadTimeout, cfg.StatusServer.ReadTimeout)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadAppConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("practicum: [oops"), 0o600))

	_, err := loadAppConfig(path, false, envMap(fullEnv()))
	assert.Error(t, err)
}

func TestValidateAppConfigMissingChatID(t *testing.T) {
	env := fullEnv()
	delete(env, envTelegramChatID)

	cfg, err := loadAppConfig("", false, envMap(env))
	require.NoError(t, err)

	err = validateAppConfig(cfg)
	require.Error(t, err)
	assert.Equal(t, appErr.ConfigMissing, appErr.GetCode(err))
	assert.Contains(t, err.Error(), envTelegramChatID)
	assert.Equal(t, []string{envTelegramChatID}, missingCredentials(cfg))
}

func TestValidateAppConfigNamesEveryMissingVariable(t *testing.T) {
	cfg, err := loadAppConfig("", false, envMap(map[string]string{envPracticumToken: "  "}))
	require.NoError(t, err)

	assert.Equal(t, []string{envPracticumToken, envTelegramToken, envTelegramChatID}, missingCredentials(cfg))
	assert.Equal(t, appErr.ConfigMissing, appErr.GetCode(validateAppConfig(cfg)))
}

func TestApplyEnvRejectsMalformedChatID(t *testing.T) {
	env := fullEnv()
	env[envTelegramChatID] = "my-chat"

	_, err := loadAppConfig("", false, envMap(env))
	assert.Equal(t, appErr.ConfigInvalid, appErr.GetCode(err))

	env[envTelegramChatID] = "@homework_channel"
	cfg, err := loadAppConfig("", false, envMap(env))
	require.NoError(t, err)
	assert.Equal(t, "@homework_channel", cfg.Telegram.ChatID)
}
