package service

import (
	"testing"
	"time"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
)

// 2024-01-01 为周一
var projWindowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func mondaySchedule(id string) model.ClassSchedule {
	return model.ClassSchedule{
		ScheduleID: id,
		UserID:     "user-001",
		CourseID:   "course-001",
		DayOfWeek:  1, // 周一
		StartTime:  "09:00",
		EndTime:    "10:30",
		Location:   "教学楼 A101",
	}
}

func projCourseMap() map[string]*model.Course {
	return map[string]*model.Course{
		"course-001": {
			CourseID: "course-001",
			UserID:   "user-001",
			Name:     "线性代数",
			Code:     "MATH201",
			Color:    "#3b82f6",
		},
	}
}

// ── 课程事件展开 ──

func TestProjectEvents_WeeklyExpansion(t *testing.T) {
	schedules := []model.ClassSchedule{mondaySchedule("sched-001")}

	events := ProjectEvents(schedules, nil, projCourseMap(), projWindowStart, 30)

	// 30 天窗口内（01-01 起）共 5 个周一
	if len(events) != 5 {
		t.Fatalf("期望 5 个事件，实际=%d", len(events))
	}

	wantDates := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}
	for i, e := range events {
		if e.Date != wantDates[i] {
			t.Errorf("事件 %d 期望日期=%s，实际=%s", i, wantDates[i], e.Date)
		}
		if e.ID != "sched-001-"+wantDates[i] {
			t.Errorf("事件 %d 期望 ID=sched-001-%s，实际=%s", i, wantDates[i], e.ID)
		}
		if e.Type != dto.CalendarEventClass {
			t.Errorf("事件 %d 期望类型=class，实际=%s", i, e.Type)
		}
		if e.Title != "线性代数" {
			t.Errorf("事件 %d 期望标题=线性代数，实际=%s", i, e.Title)
		}
		if e.Color != "#3b82f6" {
			t.Errorf("事件 %d 期望颜色=#3b82f6，实际=%s", i, e.Color)
		}
		if e.Time != "09:00" {
			t.Errorf("事件 %d 期望时间=09:00，实际=%s", i, e.Time)
		}
	}
}

func TestProjectEvents_Idempotent(t *testing.T) {
	schedules := []model.ClassSchedule{mondaySchedule("sched-001")}
	courses := projCourseMap()

	first := ProjectEvents(schedules, nil, courses, projWindowStart, 30)
	second := ProjectEvents(schedules, nil, courses, projWindowStart, 30)

	if len(first) != len(second) {
		t.Fatalf("两次投影数量不一致: %d vs %d", len(first), len(second))
	}
	// Course 为指针字段，需解引用比较内容
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID || a.Title != b.Title || a.Date != b.Date ||
			a.Time != b.Time || a.Type != b.Type || a.Color != b.Color {
			t.Errorf("事件 %d 两次投影不一致: %+v vs %+v", i, a, b)
		}
		switch {
		case a.Course == nil && b.Course == nil:
		case a.Course != nil && b.Course != nil && *a.Course == *b.Course:
		default:
			t.Errorf("事件 %d 两次投影课程信息不一致: %+v vs %+v", i, a.Course, b.Course)
		}
	}
}

func TestProjectEvents_DanglingCourseFallback(t *testing.T) {
	schedules := []model.ClassSchedule{mondaySchedule("sched-001")}

	// 课程映射为空 → 悬挂引用，回退标题与颜色
	events := ProjectEvents(schedules, nil, map[string]*model.Course{}, projWindowStart, 7)

	if len(events) != 1 {
		t.Fatalf("期望 1 个事件，实际=%d", len(events))
	}
	if events[0].Title != "Class" {
		t.Errorf("期望回退标题=Class，实际=%s", events[0].Title)
	}
	if events[0].Color != "#6366f1" {
		t.Errorf("期望回退颜色=#6366f1，实际=%s", events[0].Color)
	}
	if events[0].Course != nil {
		t.Error("悬挂引用时 Course 应为 nil")
	}
}

// ── 作业事件 ──

func TestProjectEvents_AssignmentExclusion(t *testing.T) {
	assignments := []model.Assignment{
		{
			AssignmentID: "a-past",
			CourseID:     "course-001",
			Title:        "过期作业",
			DueDate:      projWindowStart.Add(-time.Second), // 窗口起点之前
			Priority:     model.PriorityHigh,
		},
		{
			AssignmentID: "a-boundary",
			CourseID:     "course-001",
			Title:        "边界作业",
			DueDate:      projWindowStart, // 恰好等于窗口起点 → 保留
			Priority:     model.PriorityMedium,
		},
		{
			AssignmentID: "a-future",
			CourseID:     "course-001",
			Title:        "未来作业",
			DueDate:      projWindowStart.AddDate(0, 0, 10),
			Priority:     model.PriorityLow,
		},
	}

	events := ProjectEvents(nil, assignments, projCourseMap(), projWindowStart, 30)

	if len(events) != 2 {
		t.Fatalf("期望 2 个事件（过期作业被排除），实际=%d", len(events))
	}
	if events[0].ID != "assignment-a-boundary" {
		t.Errorf("期望首个事件 ID=assignment-a-boundary，实际=%s", events[0].ID)
	}
	if events[1].ID != "assignment-a-future" {
		t.Errorf("期望次个事件 ID=assignment-a-future，实际=%s", events[1].ID)
	}
	if events[0].Time != "" {
		t.Errorf("作业事件不应携带时间，实际=%s", events[0].Time)
	}
}

func TestProjectEvents_PriorityColors(t *testing.T) {
	cases := []struct {
		priority string
		want     string
	}{
		{model.PriorityHigh, "#ef4444"},
		{model.PriorityMedium, "#f59e0b"},
		{model.PriorityLow, "#22c55e"},
		{"unknown", "#f59e0b"}, // 未知取值回退 medium 色
	}

	for _, tc := range cases {
		assignments := []model.Assignment{{
			AssignmentID: "a-001",
			CourseID:     "course-001",
			Title:        "作业",
			DueDate:      projWindowStart.AddDate(0, 0, 1),
			Priority:     tc.priority,
		}}

		events := ProjectEvents(nil, assignments, projCourseMap(), projWindowStart, 30)
		if len(events) != 1 {
			t.Fatalf("priority=%s: 期望 1 个事件，实际=%d", tc.priority, len(events))
		}
		if events[0].Color != tc.want {
			t.Errorf("priority=%s: 期望颜色=%s，实际=%s", tc.priority, tc.want, events[0].Color)
		}
	}
}

// ── 事件顺序 ──

func TestProjectEvents_ClassesBeforeAssignments(t *testing.T) {
	schedules := []model.ClassSchedule{mondaySchedule("sched-001")}
	assignments := []model.Assignment{{
		AssignmentID: "a-001",
		CourseID:     "course-001",
		Title:        "作业",
		DueDate:      projWindowStart.AddDate(0, 0, 1),
		Priority:     model.PriorityMedium,
	}}

	events := ProjectEvents(schedules, assignments, projCourseMap(), projWindowStart, 7)

	if len(events) != 2 {
		t.Fatalf("期望 2 个事件，实际=%d", len(events))
	}
	if events[0].Type != dto.CalendarEventClass {
		t.Errorf("课程事件应排在作业事件之前，首个类型=%s", events[0].Type)
	}
	if events[1].Type != dto.CalendarEventAssignment {
		t.Errorf("期望末尾为作业事件，实际类型=%s", events[1].Type)
	}
}

func TestProjectEvents_EmptyInput(t *testing.T) {
	events := ProjectEvents(nil, nil, nil, projWindowStart, 30)
	if len(events) != 0 {
		t.Errorf("空输入应产出空事件列表，实际=%d", len(events))
	}
}
