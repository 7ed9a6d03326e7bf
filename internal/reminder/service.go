package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/listd/internal/logging"
	"github.com/sandeepkv93/listd/internal/scheduler"
)

// Service runs a sweep every day at Hour:Minute in Location.
type Service struct {
	Sweeper  *Sweeper
	Hour     int
	Minute   int
	Location *time.Location
	Logger   *logging.Logger
	Now      func() time.Time
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.Sweeper == nil {
		return fmt.Errorf("reminder: service has no sweeper")
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("reminder")
	now := s.Now
	if now == nil {
		now = time.Now
	}

	engine := scheduler.NewEngine(1)
	engine.Start()
	defer engine.Stop()

	schedule := func() error {
		at := scheduler.NextDaily(now(), s.Hour, s.Minute, s.Location)
		logger.Info(ctx, "next reminder sweep scheduled", zap.Time("at", at))
		return engine.Schedule(scheduler.Event{
			ID:        at.Format(time.RFC3339),
			Kind:      scheduler.KindDailySweep,
			TriggerAt: at,
		})
	}
	if err := schedule(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-engine.C():
			if !ok {
				return nil
			}
			if ev.Kind != scheduler.KindDailySweep {
				continue
			}
			if _, err := s.Sweeper.Sweep(ctx); err != nil && ctx.Err() == nil {
				logger.Error(ctx, "reminder sweep failed", zap.Error(err))
			}
			if err := schedule(); err != nil {
				return err
			}
		}
	}
}
