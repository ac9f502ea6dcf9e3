package service

import (
	"testing"
	"time"
)

func TestClassifyBlock(t *testing.T) {
	today := ymd(2026, 4, 1)
	start, end := 9*time.Hour, 10*time.Hour

	cases := []struct {
		name string
		date time.Time
		now  time.Time
		has  bool
		want BlockStatus
	}{
		{"过去日期有考勤", ymd(2026, 3, 31), at(2026, 4, 1, 8, 0), true, BlockDone},
		{"过去日期无考勤", ymd(2026, 3, 31), at(2026, 4, 1, 8, 0), false, BlockMissed},
		{"未来日期", ymd(2026, 4, 2), at(2026, 4, 1, 12, 0), false, BlockScheduled},
		{"未来日期有考勤", ymd(2026, 4, 2), at(2026, 4, 1, 12, 0), true, BlockScheduled},
		{"已结束有考勤", today, at(2026, 4, 1, 10, 1), true, BlockDone},
		{"已结束无考勤", today, at(2026, 4, 1, 10, 1), false, BlockMissed},
		{"恰好结束", today, at(2026, 4, 1, 10, 0), false, BlockInProgress},
		{"恰好开始", today, at(2026, 4, 1, 9, 0), false, BlockInProgress},
		{"进行中有考勤", today, at(2026, 4, 1, 9, 30), true, BlockDone},
		{"未开始", today, at(2026, 4, 1, 8, 59), false, BlockScheduled},
		{"未开始但已有考勤", today, at(2026, 4, 1, 8, 50), true, BlockScheduled},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyBlock(c.date, today, c.now, start, end, c.has); got != c.want {
				t.Errorf("期望 %s，实际 %s", c.want, got)
			}
		})
	}
}

func TestBlockStatus_IsPending(t *testing.T) {
	pending := map[BlockStatus]bool{
		BlockDone:       false,
		BlockMissed:     true,
		BlockInProgress: true,
		BlockScheduled:  false,
	}
	for status, want := range pending {
		if status.IsPending() != want {
			t.Errorf("%s: 期望 IsPending=%v", status, want)
		}
	}
}

func TestCompliancePercentage(t *testing.T) {
	cases := []struct {
		done, missed int
		want         float64
	}{
		{0, 0, 0},
		{1, 3, 25},
		{1, 0, 100},
		{0, 2, 0},
		{2, 1, 66.67},
		{1, 2, 33.33},
	}
	for _, c := range cases {
		if got := compliancePercentage(c.done, c.missed); got != c.want {
			t.Errorf("done=%d missed=%d: 期望 %v，实际 %v", c.done, c.missed, c.want, got)
		}
	}
}

func TestCaptureWindow(t *testing.T) {
	start, end, margin := 8*time.Hour, 8*time.Hour+45*time.Minute, 15*time.Minute
	from, to := CaptureWindow(start, end, margin)
	if from != 7*time.Hour+45*time.Minute || to != 9*time.Hour {
		t.Fatalf("期望 07:45-09:00，实际 %v-%v", from, to)
	}
	cases := map[string]struct {
		now  time.Time
		want bool
	}{
		"起点":  {at(2026, 4, 1, 7, 45), true},
		"终点":  {at(2026, 4, 1, 9, 0), true},
		"起点前": {at(2026, 4, 1, 7, 44), false},
		"终点后": {time.Date(2026, 4, 1, 9, 0, 1, 0, clt), false},
	}
	for name, c := range cases {
		if got := InCaptureWindow(c.now, start, end, margin); got != c.want {
			t.Errorf("%s: 期望 %v，实际 %v", name, c.want, got)
		}
	}
}
