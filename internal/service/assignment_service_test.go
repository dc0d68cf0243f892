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

func setupTestAssignmentService() (AssignmentService, *repository.Repository, *ReminderScheduler) {
	repo, _, _, _ := newMockRepository()
	logger := zap.NewNop()

	notifier := NewNotificationService(repo, logger)
	scheduler, _ := newTestScheduler(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	scheduler.sink = notifier

	svc := NewAssignmentService(repo, notifier, scheduler, logger)
	return svc, repo, scheduler
}

// ── Create ──

func TestAssignmentService_Create_Success(t *testing.T) {
	svc, repo, scheduler := setupTestAssignmentService()
	course := seedCourse(t, repo, "user-001")

	result, err := svc.Create(context.Background(), "user-001", &dto.CreateAssignmentRequest{
		CourseID: course.CourseID,
		Title:    "实验报告",
		DueDate:  "2024-01-05T23:59:00Z",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Priority != model.PriorityMedium {
		t.Errorf("未指定优先级应回退 medium，实际=%s", result.Priority)
	}
	if result.Completed {
		t.Error("新作业不应默认完成")
	}

	// 截止 01-05，默认提前 1 天 → 01-04 在未来，应武装
	if scheduler.PendingCount() != 1 {
		t.Errorf("创建后应武装 1 个截止提醒，实际=%d", scheduler.PendingCount())
	}
}

func TestAssignmentService_Create_BadDueDate(t *testing.T) {
	svc, repo, _ := setupTestAssignmentService()
	course := seedCourse(t, repo, "user-001")

	_, err := svc.Create(context.Background(), "user-001", &dto.CreateAssignmentRequest{
		CourseID: course.CourseID,
		Title:    "实验报告",
		DueDate:  "2024-01-05", // 缺少时间部分，非 RFC 3339
	})
	if !errors.Is(err, ErrAssignmentInvalidDue) {
		t.Errorf("期望 ErrAssignmentInvalidDue，实际: %v", err)
	}
}

// ── ToggleComplete ──

func TestAssignmentService_Toggle_CancelsAndRearms(t *testing.T) {
	svc, repo, scheduler := setupTestAssignmentService()
	course := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-001", &dto.CreateAssignmentRequest{
		CourseID: course.CourseID,
		Title:    "实验报告",
		DueDate:  "2024-01-05T23:59:00Z",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 完成 → 提醒取消
	result, err := svc.ToggleComplete(ctx, created.ID, "user-001")
	if err != nil {
		t.Fatalf("ToggleComplete 应成功: %v", err)
	}
	if !result.Completed {
		t.Error("翻转后应为已完成")
	}
	if scheduler.PendingCount() != 0 {
		t.Errorf("完成后挂起提醒应为 0，实际=%d", scheduler.PendingCount())
	}

	// 取消完成 → 重新武装
	result, err = svc.ToggleComplete(ctx, created.ID, "user-001")
	if err != nil {
		t.Fatalf("ToggleComplete 应成功: %v", err)
	}
	if result.Completed {
		t.Error("再次翻转后应为未完成")
	}
	if scheduler.PendingCount() != 1 {
		t.Errorf("取消完成后应重新武装，实际=%d", scheduler.PendingCount())
	}
}

// ── List 过滤 ──

func TestAssignmentService_List_Filters(t *testing.T) {
	svc, repo, _ := setupTestAssignmentService()
	course := seedCourse(t, repo, "user-001")
	other := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	a1, _ := svc.Create(ctx, "user-001", &dto.CreateAssignmentRequest{
		CourseID: course.CourseID, Title: "作业一", DueDate: "2024-01-05T23:59:00Z",
	})
	svc.Create(ctx, "user-001", &dto.CreateAssignmentRequest{
		CourseID: other.CourseID, Title: "作业二", DueDate: "2024-01-06T23:59:00Z",
	})
	svc.ToggleComplete(ctx, a1.ID, "user-001")

	// 按课程过滤
	byCourse, err := svc.List(ctx, "user-001", &dto.AssignmentListRequest{CourseID: course.CourseID})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(byCourse) != 1 || byCourse[0].Title != "作业一" {
		t.Errorf("按课程过滤期望仅作业一，实际=%d 条", len(byCourse))
	}

	// 按完成状态过滤
	incomplete := false
	pending, err := svc.List(ctx, "user-001", &dto.AssignmentListRequest{Completed: &incomplete})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "作业二" {
		t.Errorf("未完成过滤期望仅作业二，实际=%d 条", len(pending))
	}
}

// ── Delete ──

func TestAssignmentService_Delete_CancelsReminder(t *testing.T) {
	svc, repo, scheduler := setupTestAssignmentService()
	course := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-001", &dto.CreateAssignmentRequest{
		CourseID: course.CourseID,
		Title:    "实验报告",
		DueDate:  "2024-01-05T23:59:00Z",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if err := svc.Delete(ctx, created.ID, "user-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if scheduler.PendingCount() != 0 {
		t.Errorf("删除后挂起提醒应为 0，实际=%d", scheduler.PendingCount())
	}
	if _, err := svc.Get(ctx, created.ID, "user-001"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("期望 ErrAssignmentNotFound，实际: %v", err)
	}
}

// ── 归属校验 ──

func TestAssignmentService_Update_NotOwner(t *testing.T) {
	svc, repo, _ := setupTestAssignmentService()
	course := seedCourse(t, repo, "user-001")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-001", &dto.CreateAssignmentRequest{
		CourseID: course.CourseID,
		Title:    "实验报告",
		DueDate:  "2024-01-05T23:59:00Z",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	title := "篡改"
	_, err = svc.Update(ctx, created.ID, "user-002", &dto.UpdateAssignmentRequest{Title: &title})
	if !errors.Is(err, ErrAssignmentNotOwner) {
		t.Errorf("期望 ErrAssignmentNotOwner，实际: %v", err)
	}
}
