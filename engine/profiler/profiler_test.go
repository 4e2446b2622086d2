package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsPerInterval(t *testing.T) {
	now := time.Unix(100, 0)
	clock := func() time.Time { return now }
	p := NewProfiler(WithInterval(time.Second), WithClock(clock))

	for range 59 {
		now = now.Add(10 * time.Millisecond)
		_, reported := p.Tick()
		assert.False(t, reported)
	}

	now = now.Add(410 * time.Millisecond)
	stats, reported := p.Tick()
	require.True(t, reported)
	assert.Equal(t, 60, stats.Frames)
	assert.Equal(t, time.Second, stats.Elapsed)
	assert.InDelta(t, 60.0, stats.FPS, 1e-9)
	assert.Greater(t, stats.SysMB, 0.0)

	now = now.Add(10 * time.Millisecond)
	_, reported = p.Tick()
	assert.False(t, reported, "the frame counter restarts after a report")
}

func TestTickLogsThroughCommonLogger(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	now := time.Unix(0, 0)
	p := NewProfiler(WithInterval(time.Millisecond), WithClock(func() time.Time { return now }))
	now = now.Add(time.Second)
	_, reported := p.Tick()

	require.True(t, reported)
	assert.Contains(t, buf.String(), "msg=profiler")
	assert.Contains(t, buf.String(), "stats.fps=1")
}
