package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/application/erpsync"
)

// ReconciliationRunner runs one reconciliation cycle. Satisfied by
// erpsync.ReconciliationService.
type ReconciliationRunner interface {
	RunCycle(ctx context.Context) (*erpsync.ReconciliationResult, error)
}

// ReconciliationSchedulerConfig holds scheduler configuration
type ReconciliationSchedulerConfig struct {
	// Interval between automatic reconciliation cycles
	Interval time.Duration
	// CycleTimeout bounds a single cycle
	CycleTimeout time.Duration
}

// DefaultReconciliationSchedulerConfig returns the default configuration
func DefaultReconciliationSchedulerConfig() ReconciliationSchedulerConfig {
	return ReconciliationSchedulerConfig{
		Interval:     15 * time.Minute,
		CycleTimeout: 5 * time.Minute,
	}
}

// Validate validates the configuration
func (c *ReconciliationSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.CycleTimeout <= 0 || c.CycleTimeout > c.Interval {
		return ErrInvalidConfig
	}
	return nil
}

// ReconciliationScheduler triggers reconciliation cycles on a fixed interval.
// A tick that fires while a cycle is still running is coalesced into it; the
// runner rejects the overlapping trigger and the scheduler just logs it.
type ReconciliationScheduler struct {
	config ReconciliationSchedulerConfig
	runner ReconciliationRunner
	logger *zap.Logger

	trigger chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
}

// NewReconciliationScheduler creates a new reconciliation scheduler
func NewReconciliationScheduler(config ReconciliationSchedulerConfig, runner ReconciliationRunner, logger *zap.Logger) (*ReconciliationScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationScheduler{
		config:  config,
		runner:  runner,
		logger:  logger.Named("scheduler"),
		trigger: make(chan struct{}, 1),
	}, nil
}

// Start starts the scheduler loop
func (s *ReconciliationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Reconciliation scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("cycle_timeout", s.config.CycleTimeout),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *ReconciliationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reconciliation scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reconciliation scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger requests an immediate cycle outside the regular interval.
// Non-blocking; a pending trigger absorbs further ones.
func (s *ReconciliationScheduler) Trigger() error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return nil
}

func (s *ReconciliationScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		case <-s.trigger:
			s.runCycle(ctx)
		}
	}
}

func (s *ReconciliationScheduler) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.config.CycleTimeout)
	defer cancel()

	result, err := s.runner.RunCycle(cycleCtx)
	switch {
	case errors.Is(err, erpsync.ErrCycleInProgress):
		s.logger.Debug("Reconciliation cycle already running, trigger coalesced")
	case err != nil:
		s.logger.Error("Reconciliation cycle failed", zap.Error(err))
	default:
		s.logger.Info("Reconciliation cycle completed",
			zap.String("export_status", result.Export.Status),
			zap.String("import_status", result.Import.Status),
		)
	}
}
