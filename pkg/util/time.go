package util

import (
	"strconv"
	"strings"
	"time"
)

const (
	// ShortDateLayout e.g. "Feb 17, 2025"
	ShortDateLayout = "Jan 2, 2006"
	// LongDateLayout e.g. "Monday, February 17, 2025"
	LongDateLayout = "Monday, January 2, 2006"
)

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// 纯数字默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// GetZeroTime 获取某一天的0点时间
func GetZeroTime(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// NextSunday returns the coming Sunday at 09:00; on a Sunday it returns the following one
// NextSunday 返回下一个周日 09:00，当天为周日时顺延一周
func NextSunday(now time.Time) time.Time {
	diff := 7 - int(now.Weekday())
	next := now.AddDate(0, 0, diff)
	return time.Date(next.Year(), next.Month(), next.Day(), 9, 0, 0, 0, now.Location())
}

// EditionWindow returns last Sunday 00:00 (today when Sunday) through the following Saturday 23:59:59.999
// EditionWindow 返回本期窗口：上个周日 0 点到本周六结束
func EditionWindow(now time.Time) (start, end time.Time) {
	start = GetZeroTime(now.AddDate(0, 0, -int(now.Weekday())))
	end = start.AddDate(0, 0, 6).Add(24*time.Hour - time.Millisecond)
	return start, end
}

// WeekAfter returns the Monday and Saturday following a Sunday publish date
// WeekAfter 返回发布日（周日）之后的周一与周六
func WeekAfter(publish time.Time) (monday, saturday time.Time) {
	monday = publish.AddDate(0, 0, 1)
	saturday = monday.AddDate(0, 0, 5)
	return monday, saturday
}

// FormatShortDate 格式化为 "Jan 2, 2006"
func FormatShortDate(t time.Time) string {
	return t.Format(ShortDateLayout)
}
