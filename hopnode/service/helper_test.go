package service

import (
	"context"
	"sync"

	"hopchain/pkg/constance"
)

// seqRandSource 按顺序返回预设的值，并记录每次调用的区间
type seqRandSource struct {
	mu     sync.Mutex
	values []int
	calls  [][2]int
}

func newSeqRandSource(values ...int) *seqRandSource {
	return &seqRandSource{values: values}
}

func (s *seqRandSource) IntRange(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, [2]int{min, max})
	if len(s.values) == 0 {
		return max
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

type observation struct {
	name    string
	elapsed float64
	outcome constance.OutcomeType
}

type recordingObserver struct {
	mu              sync.Mutex
	requests        []observation
	downstreamCalls []observation
}

func (o *recordingObserver) RecordRequest(_ context.Context, endpoint string, elapsedSeconds float64,
	outcome constance.OutcomeType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, observation{endpoint, elapsedSeconds, outcome})
}

func (o *recordingObserver) RecordDownstreamCall(_ context.Context, target string, elapsedSeconds float64,
	outcome constance.OutcomeType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.downstreamCalls = append(o.downstreamCalls, observation{target, elapsedSeconds, outcome})
}

var _ Observer = (*recordingObserver)(nil)
