package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/internal/usecase"
	pkgcache "FinSignal/pkg/cache"
	applogger "FinSignal/pkg/logger"
)

const lockKey = "scan:lock"

// Scanner periodically runs the watchlist through the batch pipeline and
// publishes every result.
type Scanner struct {
	cron    *cron.Cron
	batch   *usecase.BatchSignalsUseCase
	pub     domrepo.ResultPublisher
	symbols []string
	period  domrepo.Period
	timeout time.Duration
	lock    pkgcache.Service
	lockTTL time.Duration
	l       *applogger.Logger

	mu      sync.Mutex
	running bool
}

func NewScanner(batch *usecase.BatchSignalsUseCase, pub domrepo.ResultPublisher, symbols []string, period domrepo.Period) *Scanner {
	return &Scanner{
		cron:    cron.New(cron.WithSeconds()),
		batch:   batch,
		pub:     pub,
		symbols: symbols,
		period:  period,
		timeout: 5 * time.Minute,
	}
}

// SetLogger sets optional logger.
func (s *Scanner) SetLogger(l *applogger.Logger) { s.l = l }

// SetLock makes each tick take a shared lock first, so only one replica scans
// per schedule slot. The lock expires after ttl if the holder dies.
func (s *Scanner) SetLock(c pkgcache.Service, ttl time.Duration) {
	s.lock = c
	s.lockTTL = ttl
	if s.lockTTL <= 0 {
		s.lockTTL = s.timeout
	}
}

// Register schedules the scan on spec (six-field cron with seconds).
func (s *Scanner) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

func (s *Scanner) Start() {
	s.cron.Start()
	if s.l != nil {
		s.l.Info("scanner started", applogger.Int("symbols", len(s.symbols)))
	}
}

// Stop halts scheduling and waits for a running scan to finish or ctx to end.
func (s *Scanner) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scanner stop: %w", ctx.Err())
	}
}

func (s *Scanner) tick() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		if s.l != nil {
			s.l.Warn("previous scan still running, skipping")
		}
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.runLocked(ctx); err != nil && s.l != nil {
		s.l.Error("scan failed", applogger.Error(err))
	}
}

// runLocked runs a scan when the shared lock is free or not configured.
// A held lock is not an error: the scan is skipped and 0 is returned.
func (s *Scanner) runLocked(ctx context.Context) (int, error) {
	if s.lock == nil {
		return s.RunOnce(ctx)
	}
	token := uuid.NewString()
	ok, err := s.lock.TryLock(ctx, lockKey, token, s.lockTTL)
	if err != nil {
		return 0, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !ok {
		if s.l != nil {
			s.l.Debug("scan lock held elsewhere, skipping")
		}
		return 0, nil
	}
	defer func() {
		if err := s.lock.Unlock(context.Background(), lockKey, token); err != nil && s.l != nil {
			s.l.Warn("release scan lock", applogger.Error(err))
		}
	}()
	return s.RunOnce(ctx)
}

// RunOnce scans the watchlist immediately and returns the number of results published.
func (s *Scanner) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	res := s.batch.Run(ctx, s.symbols, s.period)
	if res.Count > 0 {
		if err := s.pub.PublishBatch(ctx, res.Signals); err != nil {
			return 0, fmt.Errorf("publish scan: %w", err)
		}
	}
	if s.l != nil {
		s.l.Info("scan completed",
			applogger.Int("symbols", len(s.symbols)),
			applogger.Int("results", res.Count),
			applogger.Duration("took_ms", time.Since(start)))
	}
	return res.Count, nil
}
