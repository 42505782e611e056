package service

import (
	"strings"
	"time"

	appErr "hwbot/pkg/errors"

	"github.com/robfig/cron/v3"
)

// DefaultRetryInterval is the pause between poll cycles.
const DefaultRetryInterval = 600 * time.Second

// NewSchedule returns the poll schedule. A non-empty expr is parsed as a
// standard cron expression or descriptor ("@every 10m"); otherwise the loop waits a
// constant interval after each cycle.
func NewSchedule(expr string, interval time.Duration) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr != "" {
		schedule, err := cron.ParseStandard(expr)
		if err != nil {
			return nil, appErr.Wrapf(err, appErr.ConfigInvalid, "invalid poll schedule %q", expr)
		}
		if schedule.Next(time.Now()).IsZero() {
			return nil, appErr.Newf(appErr.ConfigInvalid, "poll schedule %q never fires", expr)
		}
		return schedule, nil
	}
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	if interval < time.Second {
		return nil, appErr.Newf(appErr.ConfigInvalid, "poll interval %s is below one second", interval)
	}
	return cron.Every(interval), nil
}
