package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeJob(t *testing.T) {
	job := &models.JobMessage{
		ID:         "abc",
		Kind:       models.JobLowStock,
		Attempt:    2,
		EnqueuedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := encodeJob(job)
	require.NoError(t, err)

	got, err := decodeJob(string(data))
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestEncodeDecodeJob_Invalid(t *testing.T) {
	_, err := encodeJob(&models.JobMessage{Kind: "reboot"})
	assert.Error(t, err)

	_, err = decodeJob("not json")
	assert.Error(t, err)

	_, err = decodeJob(`{"id":"x","kind":"reboot"}`)
	assert.Error(t, err)
}

func TestClampConcurrency(t *testing.T) {
	assert.Equal(t, 1, clampConcurrency(0))
	assert.Equal(t, 3, clampConcurrency(3))
	assert.Equal(t, maxConcurrency, clampConcurrency(50))
}

func TestMemoryClient_PublishConsume(t *testing.T) {
	client := NewMemoryClient(10, testutil.Logger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu    sync.Mutex
		kinds []string
		wg    sync.WaitGroup
	)
	wg.Add(3)

	done := make(chan error, 1)
	go func() {
		done <- client.Consume(ctx, func(ctx context.Context, job *models.JobMessage) error {
			defer wg.Done()
			mu.Lock()
			kinds = append(kinds, job.Kind)
			mu.Unlock()
			return nil
		}, 2)
	}()

	for _, kind := range []string{models.JobHeartbeat, models.JobLowStock, models.JobOrderReminders} {
		require.NoError(t, client.Publish(ctx, &models.JobMessage{ID: kind, Kind: kind}))
	}

	wg.Wait()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.ElementsMatch(t, []string{models.JobHeartbeat, models.JobLowStock, models.JobOrderReminders}, kinds)
}

func TestMemoryClient_ConcurrencyLimit(t *testing.T) {
	client := NewMemoryClient(10, testutil.Logger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inFlight, peak atomic.Int32
	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		_ = client.Consume(ctx, func(ctx context.Context, job *models.JobMessage) error {
			defer wg.Done()
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		}, 2)
	}()

	for i := 0; i < 6; i++ {
		require.NoError(t, client.Publish(ctx, &models.JobMessage{Kind: models.JobHeartbeat}))
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestMemoryClient_Close(t *testing.T) {
	client := NewMemoryClient(1, testutil.Logger(t))
	require.NoError(t, client.Health(context.Background()))
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	assert.ErrorIs(t, client.Health(context.Background()), ErrClosed)
	assert.ErrorIs(t, client.Publish(context.Background(), &models.JobMessage{Kind: models.JobHeartbeat}), ErrClosed)
}
