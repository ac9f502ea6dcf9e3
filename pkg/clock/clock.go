// Package clock 提供"当前时间"的唯一来源，以及日期/节次时间的小工具函数。
// 所有依赖时间的业务组件都通过注入 Clock 获取 now/today，不直接调用 time.Now。
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/fmandres92/schoolmate-backend-sub002/config"
)

// Clock 时间源
type Clock interface {
	// Now 当前时刻（已转换到学校时区）
	Now() time.Time
	// Today 当前日期，按 DateOf 规范化
	Today() time.Time
}

// ── 系统时钟 ──

type systemClock struct {
	loc *time.Location
}

// NewSystem 创建基于系统时间的时钟
func NewSystem(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time   { return time.Now().In(c.loc) }
func (c *systemClock) Today() time.Time { return DateOf(c.Now()) }

// ── 可控时钟（测试/演示） ──

// Mock 可冻结、可推进的时钟。仅用于测试与非生产环境演示。
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMock 创建冻结在 now 的时钟
func NewMock(now time.Time) *Mock {
	return &Mock{now: now}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) Today() time.Time { return DateOf(m.Now()) }

// Set 将时钟设置到指定时刻
func (m *Mock) Set(now time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Advance 将时钟向前推进 d
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// FromConfig 根据配置构造时钟。fixed_now 非空时返回冻结时钟。
func FromConfig(cfg *config.ClockConfig) (Clock, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("加载时区 %q 失败: %w", cfg.Timezone, err)
	}
	if cfg.FixedNow == "" {
		return NewSystem(loc), nil
	}
	fixed, err := time.Parse(time.RFC3339, cfg.FixedNow)
	if err != nil {
		return nil, fmt.Errorf("clock.fixed_now 格式应为 RFC3339: %w", err)
	}
	return NewMock(fixed.In(loc)), nil
}
