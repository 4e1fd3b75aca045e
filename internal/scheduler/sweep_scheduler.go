package scheduler

import (
	"time"

	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/metrics"
	"github.com/robfig/cron/v3"
)

// Sweeper drops customization sessions idle for longer than maxAge.
type Sweeper interface {
	Sweep(maxAge time.Duration) int
}

// SweepScheduler 미완료 옵션 선택 세션 정리 스케줄러
type SweepScheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
	maxAge  time.Duration
	metrics *metrics.OrderingMetrics
}

// NewSweepScheduler 정리 스케줄러 생성
func NewSweepScheduler(sweeper Sweeper, spec string, maxAge time.Duration, m *metrics.OrderingMetrics) *SweepScheduler {
	return &SweepScheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		spec:    spec,
		maxAge:  maxAge,
		metrics: m,
	}
}

// RunOnce sweeps immediately and returns the number of sessions removed.
func (s *SweepScheduler) RunOnce() int {
	started := time.Now()
	removed := s.sweeper.Sweep(s.maxAge)
	s.metrics.ObserveSweep(time.Since(started))

	logger.Debug("Customization sweep finished", map[string]interface{}{
		"removed": removed,
		"max_age": s.maxAge.String(),
	})
	return removed
}

// Start 스케줄러 시작
func (s *SweepScheduler) Start() error {
	// 예: "@every 1m"
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce()
	})
	if err != nil {
		logger.Error("Failed to add cron job for customization sweep", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Customization sweep scheduler started", map[string]interface{}{
		"spec":    s.spec,
		"max_age": s.maxAge.String(),
	})
	return nil
}

// Stop 스케줄러 중지
func (s *SweepScheduler) Stop() {
	logger.Info("Stopping customization sweep scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Customization sweep scheduler stopped")
}
