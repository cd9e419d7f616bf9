package maintenance

import (
	"context"
	"errors"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/charlesng35/notifyhub/internal/models"
	"github.com/charlesng35/notifyhub/pkg/logger"
	"github.com/charlesng35/notifyhub/pkg/metrics"
)

const defaultBacklogSpec = "@every 1m"

// BacklogSource counts unseen notifications per channel.
type BacklogSource interface {
	UnseenBacklog(ctx context.Context) (map[models.Channel]int64, error)
}

// BacklogReporter periodically publishes the unseen notification backlog as a gauge.
type BacklogReporter struct {
	source   BacklogSource
	cron     *cron.Cron
	schedule string
	log      *zap.Logger

	mu   sync.Mutex
	last map[models.Channel]int64
}

// Option customises the BacklogReporter.
type Option func(*BacklogReporter)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(r *BacklogReporter) {
		if c != nil {
			r.cron = c
		}
	}
}

// WithSchedule overrides the cron specification of the refresh job.
func WithSchedule(spec string) Option {
	return func(r *BacklogReporter) {
		if spec != "" {
			r.schedule = spec
		}
	}
}

// NewBacklogReporter constructs a BacklogReporter.
func NewBacklogReporter(source BacklogSource, opts ...Option) (*BacklogReporter, error) {
	if source == nil {
		return nil, errors.New("backlog reporter: source is required")
	}
	r := &BacklogReporter{
		source:   source,
		schedule: defaultBacklogSpec,
		log:      logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cron == nil {
		r.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return r, nil
}

// Start registers the refresh job and launches the scheduler.
func (r *BacklogReporter) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(context.Background()); err != nil {
			r.log.Warn("backlog refresh failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs complete.
func (r *BacklogReporter) Stop() context.Context {
	if r.cron == nil {
		return context.Background()
	}
	return r.cron.Stop()
}

// RunOnce refreshes the gauge immediately.
func (r *BacklogReporter) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	backlog, err := r.source.UnseenBacklog(ctx)
	if err != nil {
		return err
	}

	for channel, total := range backlog {
		metrics.UnseenBacklog.WithLabelValues(channel.String()).Set(float64(total))
	}

	r.mu.Lock()
	r.last = backlog
	r.mu.Unlock()
	return nil
}

// Last returns the most recently reported backlog.
func (r *BacklogReporter) Last() map[models.Channel]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[models.Channel]int64, len(r.last))
	for k, v := range r.last {
		out[k] = v
	}
	return out
}
