package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	minAge time.Duration
	err    error
}

func (f *fakeReconciler) ReconcilePending(_ context.Context, minAge time.Duration) (int, error) {
	f.minAge = minAge
	return 3, f.err
}

type fakeExpirer struct{ calls int32 }

func (f *fakeExpirer) ExpirePromotions(context.Context) (int64, error) {
	atomic.AddInt32(&f.calls, 1)
	return 1, nil
}

func TestPaymentWorker(t *testing.T) {
	rec := &fakeReconciler{}
	w := NewPaymentWorker(rec, 0)
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 5*time.Minute, rec.minAge, "zero min age falls back to five minutes")

	rec.err = errors.New("gateway down")
	assert.EqualError(t, w.Run(context.Background()), "gateway down")
}

func TestScheduler_RunsAndStops(t *testing.T) {
	exp := &fakeExpirer{}
	s := NewScheduler(time.Second)
	require.NoError(t, s.Add("@every 1s", NewPromotionWorker(exp)))
	s.Start()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&exp.calls) > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(0)
	assert.Error(t, s.Add("not a spec", NewPromotionWorker(&fakeExpirer{})))
}
