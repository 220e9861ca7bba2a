package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
)

// Refresher reloads the article index.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.ArticleRef, error)
}

// Scheduler refreshes the article index on a cron schedule. Supports
// "@daily", "@hourly" and standard cron expressions (5 to 7 fields).
type Scheduler struct {
	index   Refresher
	expr    *cronexpr.Expression
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

func NewScheduler(spec string, index Refresher, timeout time.Duration, logger *zap.Logger) (*Scheduler, error) {
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", spec, err)
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		index:   index,
		expr:    expr,
		logger:  logging.OrNop(logger).Named("scheduler"),
		timeout: timeout,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Next is the first run strictly after from, or the zero time when the
// schedule never fires again.
func (s *Scheduler) Next(from time.Time) time.Time {
	return s.expr.Next(from)
}

// Start runs the refresh loop until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.done)
		for {
			next := s.Next(s.now())
			if next.IsZero() {
				s.logger.Warn("refresh schedule has no future runs")
				return
			}
			timer := time.NewTimer(next.Sub(s.now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-s.stop:
				timer.Stop()
				return
			case <-timer.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight refresh to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := s.now()
	list, err := s.index.Refresh(ctx)
	if err != nil {
		s.logger.Warn("index refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("index refreshed", zap.Int("articles", len(list)), zap.Duration("took", s.now().Sub(start)))
}
