package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func monthly(t *testing.T) *Recurrence {
	t.Helper()
	r, err := ParseRecurrence("0 7 1 * *", time.UTC)
	require.NoError(t, err)
	return r
}

func TestRecurrence_Next(t *testing.T) {
	r := monthly(t)
	require.Equal(t, utc(2026, 10, 1, 7, 0), r.Next(utc(2026, 9, 15, 12, 0)))
	require.Equal(t, utc(2026, 11, 1, 7, 0), r.Next(utc(2026, 10, 1, 7, 0)), "estrictamente posterior")
}

func TestRecurrence_Due(t *testing.T) {
	r := monthly(t)
	last := utc(2026, 9, 15, 12, 0)

	require.False(t, r.Due(last, utc(2026, 10, 1, 6, 59)))
	require.True(t, r.Due(last, utc(2026, 10, 1, 7, 0)))
	// el tick de las 07:00 se perdió: igual corre
	require.True(t, r.Due(last, utc(2026, 10, 1, 7, 3)))
	require.True(t, r.Due(last, utc(2026, 10, 2, 9, 0)))
	// ya corrió este mes
	require.False(t, r.Due(utc(2026, 10, 1, 7, 0), utc(2026, 10, 20, 7, 0)))
}

func TestRecurrence_Timezone(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	r, err := ParseRecurrence("0 7 1 * *", loc)
	require.NoError(t, err)
	next := r.Next(utc(2026, 9, 15, 0, 0))
	require.Equal(t, utc(2026, 10, 1, 10, 0), next.UTC())
}

func TestParseRecurrence_Invalid(t *testing.T) {
	_, err := ParseRecurrence("on the first", time.UTC)
	require.Error(t, err)

	r, err := ParseRecurrence("@monthly", time.UTC)
	require.NoError(t, err)
	require.Equal(t, utc(2026, 11, 1, 0, 0), r.Next(utc(2026, 10, 1, 0, 0)))
}

func TestTrigger_TickRunsOncePerSlot(t *testing.T) {
	var runs int
	tr := NewTrigger(monthly(t), time.Minute, func(context.Context) { runs++ })
	clock := utc(2026, 9, 30, 23, 0)
	tr.now = func() time.Time { return clock }
	tr.lastRun = clock

	ctx := context.Background()
	require.False(t, tr.Tick(ctx))

	// la máquina estuvo dormida y el primer tick es a las 09:30
	clock = utc(2026, 10, 1, 9, 30)
	require.True(t, tr.Tick(ctx))
	require.Equal(t, 1, runs)

	clock = utc(2026, 10, 1, 9, 31)
	require.False(t, tr.Tick(ctx))

	clock = utc(2026, 11, 1, 7, 0)
	require.True(t, tr.Tick(ctx))
	require.Equal(t, 2, runs)
}

func TestTrigger_StartRunNowAndStop(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewTrigger(monthly(t), 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
		cancel()
	})

	err := tr.Start(ctx, true)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int32(1), runs.Load())
}
