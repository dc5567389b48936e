package service

import (
	"math/rand"
	"time"

	"hopchain/pkg/conf"
)

// RandSource 随机数来源，测试时可以替换成确定性的实现
type RandSource interface {
	// IntRange 返回[min, max]闭区间内均匀分布的整数
	IntRange(min, max int) int
}

type globalRandSource struct{}

// math/rand的顶层函数可以并发调用，不需要加锁
func (globalRandSource) IntRange(min, max int) int {
	return min + rand.Intn(max-min+1)
}

var DefaultRandSource RandSource = globalRandSource{}

// Decision 本跳的故障注入结果。Delay由调用方负责真正地等待
type Decision struct {
	Delay      time.Duration
	ShouldFail bool
}

type FaultInjector struct {
	conf       conf.FaultConf
	randSource RandSource
}

func NewFaultInjector(faultConf conf.FaultConf, randSource RandSource) *FaultInjector {
	if randSource == nil {
		randSource = DefaultRandSource
	}
	return &FaultInjector{
		conf:       faultConf,
		randSource: randSource,
	}
}

// Decide 先采样延迟，再采样是否失败。失败判定固定只采样一次[1, 100]
func (f *FaultInjector) Decide() Decision {
	var d Decision
	if f.conf.MaxLatency() > 0 {
		d.Delay = time.Duration(f.randSource.IntRange(0, f.conf.MaxLatencyMillis)) * time.Millisecond
	}
	d.ShouldFail = f.randSource.IntRange(1, 100) <= f.conf.ErrorPercent
	return d
}
