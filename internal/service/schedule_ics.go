package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"study-planner/backend/internal/model"
)

// ── ICS 导入 ────────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为每周上课时段列表。
//
// 设计决策：
//   - 仅关心每周重复模式：DTSTART 确定星期几与开始时间，
//     DTEND（或 DURATION 缺省 2 小时）确定结束时间
//   - LOCATION 映射为时段地点
//   - 同 day+start+end 的事件去重（ICS 常以多个单次事件表示
//     同一门每周课程）
//   - 周次/单双周/EXDATE 不建模：课表是无限重复的每周模式
// ─────────────────────────────────────────────────────────────

// icsMaxFileSize 上传 ICS 文件大小上限
const icsMaxFileSize = 5 * 1024 * 1024 // 5MB

// ParseScheduleICS 解析 ICS 内容为上课时段列表（归属指定用户与课程）
func ParseScheduleICS(reader io.Reader, userID, courseID string) ([]model.ClassSchedule, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	type slotKey struct {
		DayOfWeek int
		StartTime string
		EndTime   string
	}
	seen := make(map[slotKey]bool)

	var schedules []model.ClassSchedule
	for _, evt := range cal.Events() {
		dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
		if err != nil {
			continue
		}
		dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
		if err != nil {
			// 无 DTEND 时缺省 2 小时时长
			dtEnd = dtStart.Add(2 * time.Hour)
		}

		key := slotKey{
			DayOfWeek: int(dtStart.Weekday()),
			StartTime: dtStart.Format("15:04"),
			EndTime:   dtEnd.Format("15:04"),
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		location := ""
		if prop := evt.GetProperty(ics.ComponentPropertyLocation); prop != nil {
			location = strings.TrimSpace(prop.Value)
		}

		schedules = append(schedules, model.ClassSchedule{
			UserID:    userID,
			CourseID:  courseID,
			DayOfWeek: key.DayOfWeek,
			StartTime: key.StartTime,
			EndTime:   key.EndTime,
			Location:  location,
		})
	}

	return schedules, nil
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.Local(), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).Local(), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
