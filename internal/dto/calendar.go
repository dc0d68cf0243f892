package dto

// ── 日历模块 DTO ──

// 日历事件类型
const (
	CalendarEventClass      = "class"
	CalendarEventAssignment = "assignment"
	CalendarEventExam       = "exam"
)

// CalendarEvent 日历事件（派生数据，不落库）
// ID 由来源记录 ID 与日期确定性合成，同一状态重复投影产出完全一致
type CalendarEvent struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Date   string       `json:"date"`           // "YYYY-MM-DD"
	Time   string       `json:"time,omitempty"` // "HH:MM"，作业事件无时间
	Type   string       `json:"type"`           // class | assignment | exam
	Color  string       `json:"color"`
	Course *CourseBrief `json:"course,omitempty"`
}

// CalendarEventsRequest 日历事件查询参数
type CalendarEventsRequest struct {
	Days int `form:"days" binding:"omitempty,min=1,max=366"`
}

// CalendarEventsResponse 日历事件响应
type CalendarEventsResponse struct {
	WindowStart string          `json:"window_start"` // "YYYY-MM-DD"
	WindowDays  int             `json:"window_days"`
	Events      []CalendarEvent `json:"events"`
}
