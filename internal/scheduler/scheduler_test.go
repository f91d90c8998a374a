package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidSpec(t *testing.T) {
	_, err := New("every tuesday-ish", func(ctx context.Context) {}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron spec")
}

func TestNew_AcceptsStandardSpec(t *testing.T) {
	s, err := New("0 8 1 * *", func(ctx context.Context) {}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestScheduler_RunsJobOnTick(t *testing.T) {
	var runs atomic.Int32
	s, err := New("@every 100ms", func(ctx context.Context) { runs.Add(1) }, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)

	<-s.Stop().Done()
}

func TestScheduler_StopWaitsForRunningJob(t *testing.T) {
	started := make(chan struct{})
	finished := make(chan struct{})
	s, err := New("@every 50ms", func(ctx context.Context) {
		close(started)
		time.Sleep(150 * time.Millisecond)
		close(finished)
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	<-started

	<-s.Stop().Done()
	select {
	case <-finished:
	default:
		t.Fatal("Stop returned before the running job finished")
	}
}
