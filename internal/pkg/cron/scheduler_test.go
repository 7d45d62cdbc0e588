package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	s := NewScheduler(fake, testLogger())

	var runs atomic.Int32
	s.AddJob("count", time.Minute, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return fake.Running() == 1 }, time.Second, 5*time.Millisecond)

	fake.Advance(time.Minute)
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.Equal(t, 0, fake.Running())
}

func TestScheduler_RunOnceKeepsGoingAfterFailure(t *testing.T) {
	s := NewScheduler(clock.NewFake(time.Now()), testLogger())

	var second bool
	s.AddJob("fails", time.Minute, func(ctx context.Context) error { return errors.New("boom") })
	s.AddJob("succeeds", time.Minute, func(ctx context.Context) error {
		second = true
		return nil
	})

	s.RunOnce(context.Background())
	assert.True(t, second)
}
