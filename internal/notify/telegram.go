package notify

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	appErr "hwbot/pkg/errors"
	"hwbot/pkg/utils/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// Sender delivers a text message to a chat.
type Sender interface {
	Send(ctx context.Context, chatID string, text string) error
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token string
	// APIEndpoint is a format string taking the token and the method name.
	APIEndpoint string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// TelegramSender sends messages through the Telegram Bot API. The bot is
// created on first use so that startup does not depend on the network.
type TelegramSender struct {
	cfg TelegramConfig
	log *logger.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

var _ Sender = (*TelegramSender)(nil)

// NewTelegramSender creates a sender.
func NewTelegramSender(cfg TelegramConfig, log *logger.Logger) (*TelegramSender, error) {
	if cfg.Token == "" {
		return nil, appErr.New(appErr.ConfigMissing).WithMessage("telegram token is required")
	}
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &TelegramSender{cfg: cfg, log: log}, nil
}

// Send delivers text to chatID. Every failure is reported as NotificationFailed.
func (s *TelegramSender) Send(ctx context.Context, chatID string, text string) error {
	if err := ctx.Err(); err != nil {
		return appErr.Wrap(err, appErr.NotificationFailed)
	}
	msg, err := NewMessage(chatID, text)
	if err != nil {
		s.log.Error(ctx, "build telegram message failed", zap.String("chat_id", chatID), zap.Error(err))
		return err
	}
	bot, err := s.client()
	if err != nil {
		s.log.Error(ctx, "init telegram bot failed", zap.Error(err))
		return appErr.Wrap(err, appErr.NotificationFailed)
	}
	if _, err := bot.Send(msg); err != nil {
		s.log.Error(ctx, "send telegram message failed", zap.String("chat_id", chatID), zap.Error(err))
		return appErr.Wrap(err, appErr.NotificationFailed).WithDetail("chat_id", chatID)
	}
	s.log.Info(ctx, "telegram message sent", zap.String("chat_id", chatID))
	return nil
}

func (s *TelegramSender) client() (*tgbotapi.BotAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bot != nil {
		return s.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(s.cfg.Token, s.cfg.APIEndpoint, s.cfg.HTTPClient)
	if err != nil {
		return nil, err
	}
	s.bot = bot
	return bot, nil
}

// NewMessage builds a text message for a numeric chat id or an @channel name.
func NewMessage(chatID string, text string) (tgbotapi.MessageConfig, error) {
	chatID = strings.TrimSpace(chatID)
	if strings.HasPrefix(chatID, "@") && len(chatID) > 1 {
		return tgbotapi.NewMessageToChannel(chatID, text), nil
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, appErr.Wrapf(err, appErr.NotificationFailed, "invalid telegram chat id %q", chatID)
	}
	return tgbotapi.NewMessage(id, text), nil
}
