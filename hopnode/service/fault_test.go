package service

import (
	"testing"
	"time"

	"hopchain/pkg/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideNeverFailsAtZeroPercent(t *testing.T) {
	injector := NewFaultInjector(conf.FaultConf{ErrorPercent: 0}, nil)
	for i := 0; i < 10000; i++ {
		require.False(t, injector.Decide().ShouldFail)
	}
}

func TestDecideAlwaysFailsAtHundredPercent(t *testing.T) {
	injector := NewFaultInjector(conf.FaultConf{ErrorPercent: 100}, nil)
	for i := 0; i < 10000; i++ {
		require.True(t, injector.Decide().ShouldFail)
	}
}

func TestDecideFailureThreshold(t *testing.T) {
	cases := []struct {
		percent int
		sample  int
		fail    bool
	}{
		{percent: 30, sample: 1, fail: true},
		{percent: 30, sample: 30, fail: true},
		{percent: 30, sample: 31, fail: false},
		{percent: 0, sample: 1, fail: false},
		{percent: 100, sample: 100, fail: true},
	}
	for _, c := range cases {
		source := newSeqRandSource(c.sample)
		d := NewFaultInjector(conf.FaultConf{ErrorPercent: c.percent}, source).Decide()
		assert.Equal(t, c.fail, d.ShouldFail, "percent=%d sample=%d", c.percent, c.sample)
		assert.Equal(t, [][2]int{{1, 100}}, source.calls)
	}
}

func TestDecideZeroLatencyDoesNotSampleDelay(t *testing.T) {
	source := newSeqRandSource(50)
	d := NewFaultInjector(conf.FaultConf{MaxLatencyMillis: 0}, source).Decide()
	assert.Equal(t, time.Duration(0), d.Delay)
	assert.Len(t, source.calls, 1)
}

func TestDecideSamplesDelayBeforeFailure(t *testing.T) {
	source := newSeqRandSource(120, 100)
	d := NewFaultInjector(conf.FaultConf{MaxLatencyMillis: 250, ErrorPercent: 99}, source).Decide()
	assert.Equal(t, 120*time.Millisecond, d.Delay)
	assert.False(t, d.ShouldFail)
	assert.Equal(t, [][2]int{{0, 250}, {1, 100}}, source.calls)
}

func TestDecideDelayCoversInclusiveRange(t *testing.T) {
	const maxLatency = 10
	injector := NewFaultInjector(conf.FaultConf{MaxLatencyMillis: maxLatency}, nil)

	seen := make(map[time.Duration]int)
	for i := 0; i < 20000; i++ {
		d := injector.Decide()
		require.GreaterOrEqual(t, d.Delay, time.Duration(0))
		require.LessOrEqual(t, d.Delay, maxLatency*time.Millisecond)
		seen[d.Delay]++
	}
	for ms := 0; ms <= maxLatency; ms++ {
		assert.Positive(t, seen[time.Duration(ms)*time.Millisecond], "delay %dms never sampled", ms)
	}
}

func TestDefaultRandSourceBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := DefaultRandSource.IntRange(1, 100)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 100)
	}
	assert.Equal(t, 7, DefaultRandSource.IntRange(7, 7))
}
