package service

import (
	"time"

	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// BlockStatus 单个课时的考勤合规状态
type BlockStatus string

const (
	BlockDone       BlockStatus = "DONE"
	BlockMissed     BlockStatus = "MISSED"
	BlockInProgress BlockStatus = "IN_PROGRESS"
	BlockScheduled  BlockStatus = "SCHEDULED"
)

// ClassifyBlock 按 date 与 today、now 与 [start, end] 的关系判定课时状态
//
// 分支顺序固定：当天尚未开始的课时即使已有考勤也返回 SCHEDULED。
// now == end 仍属于进行中区间。
func ClassifyBlock(date, today, now time.Time, start, end time.Duration, hasAttendance bool) BlockStatus {
	d, t := clock.DateOf(date), clock.DateOf(today)
	switch {
	case d.Before(t):
		return doneOr(hasAttendance, BlockMissed)
	case d.After(t):
		return BlockScheduled
	}

	tod := clock.TimeOfDay(now)
	switch {
	case tod > end:
		return doneOr(hasAttendance, BlockMissed)
	case tod >= start:
		return doneOr(hasAttendance, BlockInProgress)
	default:
		return BlockScheduled
	}
}

func doneOr(hasAttendance bool, otherwise BlockStatus) BlockStatus {
	if hasAttendance {
		return BlockDone
	}
	return otherwise
}

// IsPending MISSED 与 IN_PROGRESS 需要教师补录
func (s BlockStatus) IsPending() bool {
	return s == BlockMissed || s == BlockInProgress
}
