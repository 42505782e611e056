package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"hwbot/internal/common/metrics"
	"hwbot/internal/homework/client"
	"hwbot/internal/homework/model"
	"hwbot/internal/notify"
	appErr "hwbot/pkg/errors"
	"hwbot/pkg/utils/contextkey"
	"hwbot/pkg/utils/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatusFetcher fetches the raw status payload since a cursor.
type StatusFetcher interface {
	Fetch(ctx context.Context, fromDate int64) (interface{}, client.ResponseInfo, error)
}

// Poller runs the fetch, validate, notify cycle. Cycles never overlap; the
// mutex only guards the snapshot read by the status endpoint.
type Poller struct {
	fetcher  StatusFetcher
	sender   notify.Sender
	chatID   string
	schedule cron.Schedule
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu    sync.RWMutex
	state State
}

// State is the in-memory poll state. It is lost on restart.
type State struct {
	Cursor        int64     `json:"cursor"`
	LastMessage   string    `json:"last_message"`
	LastError     string    `json:"last_error"`
	LastCycleAt   time.Time `json:"last_cycle_at"`
	LastCycleErr  string    `json:"last_cycle_error,omitempty"`
	LastSuccessAt time.Time `json:"last_success_at"`
	Cycles        int64     `json:"cycles"`
}

// Config holds poller dependencies and settings.
type Config struct {
	Fetcher  StatusFetcher
	Sender   notify.Sender
	ChatID   string
	Schedule cron.Schedule
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	// InitialCursor seeds from_date; zero lets the fetch use the current time.
	InitialCursor int64
}

// NewPoller creates a poller.
func NewPoller(cfg Config) (*Poller, error) {
	if cfg.Fetcher == nil {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("status fetcher is required")
	}
	if cfg.Sender == nil {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("notification sender is required")
	}
	if cfg.ChatID == "" {
		return nil, appErr.New(appErr.ConfigMissing).WithMessage("chat id is required")
	}
	if cfg.Metrics == nil {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("metrics are required")
	}
	schedule := cfg.Schedule
	if schedule == nil {
		schedule = cron.Every(DefaultRetryInterval)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Poller{
		fetcher:  cfg.Fetcher,
		sender:   cfg.Sender,
		chatID:   cfg.ChatID,
		schedule: schedule,
		log:      log,
		metrics:  cfg.Metrics,
		now:      time.Now,
		state:    State{Cursor: cfg.InitialCursor},
	}, nil
}

// Run polls until ctx is cancelled. Cycle faults are handled inside the loop
// and never stop it.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info(ctx, "poller started", zap.String("chat_id", p.chatID))
	for {
		_ = p.RunCycle(ctx)

		now := p.now()
		next := p.schedule.Next(now)
		wait := next.Sub(now)
		if wait <= 0 {
			wait = DefaultRetryInterval
			next = now.Add(wait)
		}
		p.log.Debug(ctx, "waiting for next poll", zap.Time("next", next))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.log.Info(ctx, "poller stopped", zap.String("reason", ctx.Err().Error()))
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle performs one poll cycle and returns its fault, if any, after the
// fault has been logged and reported.
func (p *Poller) RunCycle(ctx context.Context) error {
	ctx = context.WithValue(ctx, contextkey.TraceID, uuid.NewString())
	start := p.now()
	began := time.Now()

	err := p.cycle(ctx)
	p.metrics.CycleDuration.Observe(time.Since(began).Seconds())

	p.mu.Lock()
	p.state.Cycles++
	p.state.LastCycleAt = start
	if err != nil {
		p.state.LastCycleErr = err.Error()
	} else {
		p.state.LastCycleErr = ""
		p.state.LastSuccessAt = start
	}
	p.mu.Unlock()

	if err == nil {
		p.metrics.CyclesTotal.WithLabelValues("ok").Inc()
		p.metrics.LastSuccess.Set(float64(start.Unix()))
		return nil
	}
	p.metrics.CyclesTotal.WithLabelValues(appErr.GetCode(err).String()).Inc()
	p.handleFailure(ctx, err)
	return err
}

func (p *Poller) cycle(ctx context.Context) error {
	cursor := p.Snapshot().Cursor
	p.log.Info(ctx, "poll cycle started", zap.Int64("cursor", cursor))

	body, info, err := p.fetcher.Fetch(ctx, cursor)
	if err != nil {
		return err
	}
	p.log.Debug(ctx, "status fetched", zap.Int("status_code", info.StatusCode), zap.Duration("duration", info.Duration))

	homeworks, err := CheckResponse(body)
	if err != nil {
		return err
	}
	if len(homeworks) == 0 {
		p.log.Debug(ctx, "no homework updates")
	} else {
		message, err := ParseStatus(homeworks[0])
		if err != nil {
			return err
		}
		if err := p.notifyStatus(ctx, message); err != nil {
			return err
		}
	}

	if next, ok := ExtractCursor(body); ok {
		p.setCursor(next)
	} else {
		p.log.Warn(ctx, "current_date missing in response, cursor unchanged", zap.Int64("cursor", cursor))
	}
	return nil
}

// notifyStatus dispatches message unless it equals the last dispatched one.
func (p *Poller) notifyStatus(ctx context.Context, message string) error {
	if message == p.Snapshot().LastMessage {
		p.log.Debug(ctx, "status unchanged, nothing to send")
		return nil
	}
	if err := p.sender.Send(ctx, p.chatID, message); err != nil {
		p.metrics.NotificationsTotal.WithLabelValues("status", "error").Inc()
		return err
	}
	p.metrics.NotificationsTotal.WithLabelValues("status", "ok").Inc()

	p.mu.Lock()
	p.state.LastMessage = message
	p.mu.Unlock()
	return nil
}

// handleFailure logs a cycle fault and reports it to the chat once per
// distinct text. Dispatch faults are only logged.
func (p *Poller) handleFailure(ctx context.Context, err error) {
	code := appErr.GetCode(err)
	fields := []zap.Field{zap.String("code", code.String()), zap.Error(err)}
	if cause := errors.Unwrap(err); cause != nil {
		fields = append(fields, zap.NamedError("cause", cause))
	}
	p.log.Error(ctx, "poll cycle failed", fields...)

	if appErr.Is(err, appErr.NotificationFailed) {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	message := model.FailureMessage(err)
	if message == p.Snapshot().LastError {
		return
	}
	if sendErr := p.sender.Send(ctx, p.chatID, message); sendErr != nil {
		p.metrics.NotificationsTotal.WithLabelValues("failure", "error").Inc()
		p.log.Error(ctx, "failure report not delivered", zap.Error(sendErr))
		return
	}
	p.metrics.NotificationsTotal.WithLabelValues("failure", "ok").Inc()

	p.mu.Lock()
	p.state.LastError = message
	p.mu.Unlock()
}

func (p *Poller) setCursor(cursor int64) {
	p.mu.Lock()
	p.state.Cursor = cursor
	p.mu.Unlock()
	p.metrics.Cursor.Set(float64(cursor))
}

// Snapshot returns a copy of the poll state.
func (p *Poller) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}
