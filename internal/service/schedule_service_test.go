package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

func setupTestScheduleService() (ScheduleService, *repository.Repository, *ReminderScheduler) {
	repo, _, _, _ := newMockRepository()
	logger := zap.NewNop()

	notifier := NewNotificationService(repo, logger)
	scheduler, _ := newTestScheduler(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	scheduler.sink = notifier

	svc := NewScheduleService(repo, notifier, scheduler, logger)
	svc.(*scheduleService).clock = scheduler.clock
	return svc, repo, scheduler
}

func seedCourse(t *testing.T, repo *repository.Repository, userID string) *model.Course {
	t.Helper()
	course := &model.Course{
		UserID: userID,
		Name:   "线性代数",
		Code:   "MATH201",
		Color:  "#3b82f6",
	}
	if err := repo.Course.Create(context.Background(), course); err != nil {
		t.Fatalf("seed 课程失败: %v", err)
	}
	return course
}

func intPtr(v int) *int { return &v }

// ── Create ──

func TestScheduleService_Create_Success(t *testing.T) {
	svc, repo, scheduler := setupTestScheduleService()
	course := seedCourse(t, repo, "user-001")

	result, err := svc.Create(context.Background(), "user-001", &dto.CreateScheduleRequest{
		CourseID:  course.CourseID,
		DayOfWeek: intPtr(1), // 周一
		StartTime: "09:00",
		EndTime:   "10:30",
		Location:  "A101",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Course == nil || result.Course.Name != "线性代数" {
		t.Error("响应应携带读取时关联的课程信息")
	}

	// 当前为周一 08:00，09:00 的课提前 15 分钟 → 08:45 仍在未来，应武装
	if scheduler.PendingCount() != 1 {
		t.Errorf("创建后应武装 1 个提醒，实际=%d", scheduler.PendingCount())
	}
}

func TestScheduleService_Create_SundayIsValid(t *testing.T) {
	svc, repo, _ := setupTestScheduleService()
	course := seedCourse(t, repo, "user-001")

	// day_of_week=0 表示周日，是合法取值
	_, err := svc.Create(context.Background(), "user-001", &dto.CreateScheduleRequest{
		CourseID:  course.CourseID,
		DayOfWeek: intPtr(0),
		StartTime: "09:00",
		EndTime:   "10:30",
	})
	if err != nil {
		t.Fatalf("周日时段应创建成功: %v", err)
	}
}

func TestScheduleService_Create_InvalidTime(t *testing.T) {
	svc, repo, _ := setupTestScheduleService()
	course := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	cases := []struct {
		name      string
		startTime string
		endTime   string
	}{
		{"开始晚于结束", "10:30", "09:00"},
		{"开始等于结束", "09:00", "09:00"},
		{"非法小时", "25:00", "26:00"},
		{"缺少冒号", "0900", "1030"},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, "user-001", &dto.CreateScheduleRequest{
			CourseID:  course.CourseID,
			DayOfWeek: intPtr(1),
			StartTime: tc.startTime,
			EndTime:   tc.endTime,
		})
		if !errors.Is(err, ErrScheduleInvalidTime) {
			t.Errorf("%s: 期望 ErrScheduleInvalidTime，实际: %v", tc.name, err)
		}
	}
}

func TestScheduleService_Create_CourseMissing(t *testing.T) {
	svc, _, _ := setupTestScheduleService()

	_, err := svc.Create(context.Background(), "user-001", &dto.CreateScheduleRequest{
		CourseID:  "missing",
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "10:30",
	})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

// ── 悬挂引用 ──

func TestScheduleService_Get_DanglingCourse(t *testing.T) {
	svc, repo, _ := setupTestScheduleService()
	course := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-001", &dto.CreateScheduleRequest{
		CourseID:  course.CourseID,
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "10:30",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 绕开 Service 直接删课程 → 时段悬挂
	repo.Course.(*mockCourseRepo).DeleteCascade(ctx, course.CourseID)

	// 时段本身也被级联删了，换一条手工悬挂记录验证展示回退
	repo.ClassSchedule.Create(ctx, &model.ClassSchedule{
		ScheduleID: "sched-dangling", UserID: "user-001", CourseID: "gone",
		DayOfWeek: 2, StartTime: "10:00", EndTime: "11:30",
	})
	result, err := svc.Get(ctx, "sched-dangling", "user-001")
	if err != nil {
		t.Fatalf("悬挂时段仍应可读取: %v", err)
	}
	if result.Course != nil {
		t.Error("课程缺失时 Course 应为 nil")
	}

	_ = created
}

// ── 删除取消提醒 ──

func TestScheduleService_Delete_CancelsReminder(t *testing.T) {
	svc, repo, scheduler := setupTestScheduleService()
	course := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-001", &dto.CreateScheduleRequest{
		CourseID:  course.CourseID,
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "10:30",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if scheduler.PendingCount() != 1 {
		t.Fatalf("创建后应武装 1 个提醒，实际=%d", scheduler.PendingCount())
	}

	if err := svc.Delete(ctx, created.ID, "user-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if scheduler.PendingCount() != 0 {
		t.Errorf("删除后挂起提醒应为 0，实际=%d", scheduler.PendingCount())
	}
}

// ── 偏好关闭不武装 ──

func TestScheduleService_Create_RemindersDisabled(t *testing.T) {
	svc, repo, scheduler := setupTestScheduleService()
	course := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	repo.NotificationSetting.Upsert(ctx, &model.NotificationSetting{
		UserID:         "user-001",
		ClassReminders: false,
		ReminderTime:   15,
	})

	_, err := svc.Create(ctx, "user-001", &dto.CreateScheduleRequest{
		CourseID:  course.CourseID,
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "10:30",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if scheduler.PendingCount() != 0 {
		t.Errorf("课程提醒关闭时不应武装，挂起数=%d", scheduler.PendingCount())
	}
}
