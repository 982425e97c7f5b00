package monitoring

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reporter logs the monitor's status summary on a cron schedule so that
// unattended deployments leave a periodic heartbeat in the logs.
type Reporter struct {
	cron *cron.Cron
}

func NewReporter(monitor *Monitor, schedule string, logger zerolog.Logger) (*Reporter, error) {
	reportLogger := logger.With().Str("component", "monitoring").Logger()

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		reportLogger.Info().Str("status", monitor.StatusSummary()).Msg("status report")
	}); err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}

	return &Reporter{cron: c}, nil
}

func (r *Reporter) Start() {
	r.cron.Start()
}

func (r *Reporter) Stop() {
	r.cron.Stop()
}
