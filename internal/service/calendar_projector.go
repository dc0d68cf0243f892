package service

import (
	"fmt"
	"time"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
)

// ── 日历事件投影 ────────────────────────────────────────────
//
// 职责：将每周重复的上课时段与作业截止时刻展开为固定窗口内的
// 日期事件列表。
//
// 设计决策：
//   - 纯函数：每次请求全量重算，不做增量维护，不落库
//   - 事件 ID 由来源 ID + 日期确定性合成 → 同一状态重复投影
//     产出逐字节一致（幂等）
//   - 课程信息读取时关联（courses 映射），不存冗余快照
//   - 不去重、不排序：课程事件按"天 → 输入顺序"，其后作业事件
//     按输入顺序；进一步的排序/分组由调用方决定
// ─────────────────────────────────────────────────────────────

// 事件颜色
const (
	defaultClassColor   = "#6366f1" // 课程缺失时的回退色
	priorityHighColor   = "#ef4444"
	priorityMediumColor = "#f59e0b"
	priorityLowColor    = "#22c55e"
)

// fallbackClassTitle 课程缺失时的回退标题
const fallbackClassTitle = "Class"

// ProjectEvents 将课表与作业投影为日历事件
//
// 参数：
//   - schedules: 每周上课时段，day_of_week ∈ [0,6]（0=周日）
//   - assignments: 作业列表，due_date 为固定时刻
//   - courses: course_id → 课程，读取时关联；缺失项按悬挂引用回退处理
//   - windowStart: 窗口起点（含当天）
//   - windowDays: 窗口天数
//
// 截止时刻早于 windowStart 的作业被静默丢弃（不投影历史事件）。
func ProjectEvents(
	schedules []model.ClassSchedule,
	assignments []model.Assignment,
	courses map[string]*model.Course,
	windowStart time.Time,
	windowDays int,
) []dto.CalendarEvent {
	events := make([]dto.CalendarEvent, 0, len(schedules)*windowDays/7+len(assignments))

	// 1. 展开每周上课时段
	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		weekday := int(day.Weekday())
		dateStr := day.Format("2006-01-02")

		for _, s := range schedules {
			if s.DayOfWeek != weekday {
				continue
			}

			title := fallbackClassTitle
			color := defaultClassColor
			var brief *dto.CourseBrief
			if course, ok := courses[s.CourseID]; ok {
				title = course.Name
				color = course.Color
				brief = toCourseBrief(course)
			}

			events = append(events, dto.CalendarEvent{
				ID:     fmt.Sprintf("%s-%s", s.ScheduleID, dateStr),
				Title:  title,
				Date:   dateStr,
				Time:   s.StartTime,
				Type:   dto.CalendarEventClass,
				Color:  color,
				Course: brief,
			})
		}
	}

	// 2. 追加作业截止事件（窗口起点之前的不投影）
	for _, a := range assignments {
		if a.DueDate.Before(windowStart) {
			continue
		}

		var brief *dto.CourseBrief
		if course, ok := courses[a.CourseID]; ok {
			brief = toCourseBrief(course)
		}

		events = append(events, dto.CalendarEvent{
			ID:     "assignment-" + a.AssignmentID,
			Title:  a.Title,
			Date:   a.DueDate.Format("2006-01-02"),
			Type:   dto.CalendarEventAssignment,
			Color:  priorityColor(a.Priority),
			Course: brief,
		})
	}

	return events
}

// priorityColor 作业优先级 → 事件颜色，未知取值回退 medium 色
func priorityColor(priority string) string {
	switch priority {
	case model.PriorityHigh:
		return priorityHighColor
	case model.PriorityMedium:
		return priorityMediumColor
	case model.PriorityLow:
		return priorityLowColor
	default:
		return priorityMediumColor
	}
}

// toCourseBrief 课程 → 简要信息
func toCourseBrief(course *model.Course) *dto.CourseBrief {
	return &dto.CourseBrief{
		ID:    course.CourseID,
		Name:  course.Name,
		Code:  course.Code,
		Color: course.Color,
	}
}
