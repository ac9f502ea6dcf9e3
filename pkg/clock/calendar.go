package clock

import (
	"fmt"
	"time"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// DateOf 取 t 在其自身时区下的年月日，返回 UTC 零点。
// 数据库 date 列读出来也是 UTC 零点，两者可以直接比较。
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 "2006-01-02"
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FormatDate 格式化为 "2006-01-02"
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDate 两个时间是否为同一天（各自时区下）
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// ISOWeekday 返回 1-7（周一=1，周日=7）
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsWeekend 是否为周六/周日
func IsWeekend(t time.Time) bool {
	return ISOWeekday(t) >= 6
}

// ── 节次时间（time of day） ──

// ParseTimeOfDay 解析 "HH:MM" 或 "HH:MM:SS"（PostgreSQL time 列的文本形式），返回距零点的时长
func ParseTimeOfDay(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("无效的时间格式 %q，应为 HH:MM", s)
}

// ParseMinuteOfDay 解析请求中的时间，精确到分钟；"HH:MM:SS" 仅接受秒为 00
func ParseMinuteOfDay(s string) (time.Duration, error) {
	d, err := ParseTimeOfDay(s)
	if err != nil {
		return 0, err
	}
	if d%time.Minute != 0 {
		return 0, fmt.Errorf("无效的时间 %q，只能精确到分钟", s)
	}
	return d, nil
}

// FormatTimeOfDay 将距零点的时长格式化为 "HH:MM"
func FormatTimeOfDay(d time.Duration) string {
	d = d.Truncate(time.Minute)
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// NormalizeTimeOfDay 统一为 "HH:MM"，"09:00:00" → "09:00"
func NormalizeTimeOfDay(s string) (string, error) {
	d, err := ParseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	return FormatTimeOfDay(d), nil
}

// TimeOfDay 取 t 的时分秒部分
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
