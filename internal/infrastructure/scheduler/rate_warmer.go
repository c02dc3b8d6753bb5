package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RateRefresher overwrites one cached conversion rate
type RateRefresher interface {
	Refresh(ctx context.Context, from, to valueobject.Currency) error
}

// RateWarmerConfig holds configuration for the rate warmer
type RateWarmerConfig struct {
	// Interval between refresh rounds
	Interval time.Duration

	// Target is the currency every other supported currency is converted to
	Target valueobject.Currency

	// Concurrency bounds the parallel upstream requests of one round
	Concurrency int

	// RoundTimeout bounds one refresh round
	RoundTimeout time.Duration
}

// DefaultRateWarmerConfig returns the default warmer configuration
func DefaultRateWarmerConfig() RateWarmerConfig {
	return RateWarmerConfig{
		Interval:     30 * time.Minute,
		Target:       valueobject.BaseCurrency,
		Concurrency:  2,
		RoundTimeout: time.Minute,
	}
}

// RateWarmer keeps the exchange-rate cache populated so checkouts in a
// foreign currency rarely wait on the upstream API
type RateWarmer struct {
	config    RateWarmerConfig
	refresher RateRefresher
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
}

// NewRateWarmer creates a new rate warmer
func NewRateWarmer(config RateWarmerConfig, refresher RateRefresher, logger *zap.Logger) (*RateWarmer, error) {
	if config.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if !config.Target.IsValid() {
		return nil, fmt.Errorf("%w: unsupported target currency %q", ErrInvalidConfig, config.Target)
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.RoundTimeout <= 0 {
		config.RoundTimeout = config.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateWarmer{config: config, refresher: refresher, logger: logger}, nil
}

// Start runs one refresh round immediately and then one per interval
func (w *RateWarmer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.isRunning = true
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.runLoop(ctx)

	w.logger.Info("Rate warmer started",
		zap.Duration("interval", w.config.Interval),
		zap.String("target", w.config.Target.String()),
	)
	return nil
}

// Stop stops the warmer and waits for the current round
func (w *RateWarmer) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Rate warmer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastRun reports when the last round finished
func (w *RateWarmer) LastRun() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun
}

func (w *RateWarmer) runLoop(ctx context.Context) {
	defer w.wg.Done()

	w.RefreshAll(ctx)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes every supported currency against the target. Failed
// pairs are logged and keep their cached value until it expires.
func (w *RateWarmer) RefreshAll(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, w.config.RoundTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.config.Concurrency)
	for _, from := range valueobject.SupportedCurrencies() {
		if from == w.config.Target {
			continue
		}
		g.Go(func() error {
			if err := w.refresher.Refresh(gctx, from, w.config.Target); err != nil {
				w.logger.Warn("Rate refresh failed",
					zap.String("from", from.String()),
					zap.String("to", w.config.Target.String()),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	w.mu.Lock()
	w.lastRun = time.Now()
	w.mu.Unlock()

	w.logger.Debug("Rate refresh round finished", zap.Int("failed", failed))
	return failed
}
