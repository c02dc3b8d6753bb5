package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingRefresher struct {
	mu    sync.Mutex
	pairs map[string]int
	calls atomic.Int32
	fail  valueobject.Currency
}

func (r *recordingRefresher) Refresh(_ context.Context, from, to valueobject.Currency) error {
	r.calls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pairs == nil {
		r.pairs = map[string]int{}
	}
	r.pairs[from.String()+"->"+to.String()]++
	if from == r.fail {
		return errors.New("upstream down")
	}
	return nil
}

func TestNewRateWarmer_Validation(t *testing.T) {
	_, err := NewRateWarmer(RateWarmerConfig{Target: valueobject.USD}, &recordingRefresher{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRateWarmer(RateWarmerConfig{Interval: time.Minute, Target: "XYZ"}, &recordingRefresher{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	w, err := NewRateWarmer(DefaultRateWarmerConfig(), &recordingRefresher{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, w)
}

func TestRateWarmer_RefreshAll(t *testing.T) {
	refresher := &recordingRefresher{fail: valueobject.NGN}
	w, err := NewRateWarmer(DefaultRateWarmerConfig(), refresher, zap.NewNop())
	require.NoError(t, err)

	failed := w.RefreshAll(context.Background())

	assert.Equal(t, 1, failed)
	assert.Len(t, refresher.pairs, len(valueobject.SupportedCurrencies())-1)
	assert.NotContains(t, refresher.pairs, "USD->USD")
	assert.Equal(t, 1, refresher.pairs["EUR->USD"])
	assert.False(t, w.LastRun().IsZero())
}

func TestRateWarmer_StartStop(t *testing.T) {
	refresher := &recordingRefresher{}
	cfg := DefaultRateWarmerConfig()
	cfg.Interval = 10 * time.Millisecond
	w, err := NewRateWarmer(cfg, refresher, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.ErrorIs(t, w.Start(context.Background()), ErrAlreadyRunning)

	perRound := int32(len(valueobject.SupportedCurrencies()) - 1)
	assert.Eventually(t, func() bool {
		return refresher.calls.Load() >= 2*perRound
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
	require.NoError(t, w.Stop(ctx), "second stop is a no-op")
}
