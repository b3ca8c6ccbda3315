package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday 接受任意大小写的短名（Mon）或全名（Monday）
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// ParseClock 把 HH:MM 或 HH:MM:SS 转成当天的秒数
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	limits := []int{23, 59, 59}
	total := 0
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		total = total*60 + n
	}
	if len(parts) == 2 {
		total *= 60
	}
	return total, nil
}

// FormatClock 把当天的秒数格式化为 HH:MM:SS
func FormatClock(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec/60%60, sec%60)
}

// Schedule 课堂的每周开放时间
type Schedule struct {
	Days  []string
	Start string
	End   string
}

// Validate 报告未知的星期名或格式错误的时间
func (s Schedule) Validate() error {
	for _, d := range s.Days {
		if _, ok := ParseWeekday(d); !ok {
			return fmt.Errorf("unknown day %q", d)
		}
	}
	var start, end int
	var err error
	if s.Start != "" {
		if start, err = ParseClock(s.Start); err != nil {
			return err
		}
	}
	if s.End != "" {
		if end, err = ParseClock(s.End); err != nil {
			return err
		}
	}
	if s.Start != "" && s.End != "" && start > end {
		return fmt.Errorf("start_time %s is after end_time %s", s.Start, s.End)
	}
	return nil
}

// Check 在 now 不在课表内时返回可读的原因，允许进入时返回空串。
// now 必须已经转换到课表时区
func (s Schedule) Check(now time.Time) (string, error) {
	if len(s.Days) > 0 {
		today := now.Weekday()
		allowed := false
		for _, d := range s.Days {
			if wd, ok := ParseWeekday(d); ok && wd == today {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Sprintf("Class not scheduled for today (%s).", now.Format("Mon")), nil
		}
	}

	if s.Start == "" || s.End == "" {
		return "", nil
	}
	start, err := ParseClock(s.Start)
	if err != nil {
		return "", err
	}
	end, err := ParseClock(s.End)
	if err != nil {
		return "", err
	}
	current := now.Hour()*3600 + now.Minute()*60 + now.Second()
	if current < start || current > end {
		return fmt.Sprintf("Class not accessible at this time (%s). Allowed: %s - %s.",
			FormatClock(current), FormatClock(start), FormatClock(end)), nil
	}
	return "", nil
}
