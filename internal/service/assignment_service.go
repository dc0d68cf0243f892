package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

// ── 作业模块业务错误 ──

var (
	ErrAssignmentNotFound   = errors.New("作业不存在")
	ErrAssignmentNotOwner   = errors.New("无权操作此作业")
	ErrAssignmentInvalidDue = errors.New("无效的截止时间")
)

// AssignmentService 作业业务接口
//
// 写入成功后按用户偏好武装截止提醒；作业完成或删除时取消。
type AssignmentService interface {
	Create(ctx context.Context, userID string, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	Get(ctx context.Context, id string, userID string) (*dto.AssignmentResponse, error)
	List(ctx context.Context, userID string, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, id string, userID string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	// ToggleComplete 翻转完成状态；置为完成时取消提醒，取消完成时重新武装
	ToggleComplete(ctx context.Context, id string, userID string) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string, userID string) error
}

type assignmentService struct {
	repo      *repository.Repository
	notifier  NotificationService
	scheduler *ReminderScheduler
	logger    *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, notifier NotificationService, scheduler *ReminderScheduler, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, notifier: notifier, scheduler: scheduler, logger: logger}
}

func (s *assignmentService) Create(ctx context.Context, userID string, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.UserID != userID {
		return nil, ErrCourseNotOwner
	}

	assignment := &model.Assignment{
		UserID:      userID,
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    req.Priority,
	}
	if assignment.Priority == "" {
		assignment.Priority = model.PriorityMedium
	}

	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建作业失败", zap.Error(err))
		return nil, err
	}

	s.armReminder(ctx, assignment)

	return toAssignmentResponse(assignment, course), nil
}

func (s *assignmentService) Get(ctx context.Context, id string, userID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, assignment), nil
}

func (s *assignmentService) List(ctx context.Context, userID string, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListByUser(ctx, userID, req.CourseID, req.Completed)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Error(err))
		return nil, err
	}

	courses, err := s.loadCourseMap(ctx, assignmentCourseIDs(assignments))
	if err != nil {
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *toAssignmentResponse(&assignments[i], courses[assignments[i].CourseID]))
	}
	return result, nil
}

func (s *assignmentService) Update(ctx context.Context, id string, userID string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		course, err := s.repo.Course.GetByID(ctx, *req.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, err
		}
		if course.UserID != userID {
			return nil, ErrCourseNotOwner
		}
		assignment.CourseID = *req.CourseID
	}
	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		assignment.DueDate = dueDate
	}
	if req.Priority != nil {
		assignment.Priority = *req.Priority
	}
	if req.Completed != nil {
		assignment.Completed = *req.Completed
	}

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新作业失败", zap.Error(err))
		return nil, err
	}

	// 编辑后重新武装或取消（完成的作业不再提醒）
	if assignment.Completed {
		s.scheduler.CancelAssignment(assignment.AssignmentID)
	} else {
		s.armReminder(ctx, assignment)
	}

	return s.toResponse(ctx, assignment), nil
}

func (s *assignmentService) ToggleComplete(ctx context.Context, id string, userID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	assignment.Completed = !assignment.Completed
	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("翻转作业完成状态失败", zap.Error(err))
		return nil, err
	}

	if assignment.Completed {
		s.scheduler.CancelAssignment(assignment.AssignmentID)
	} else {
		s.armReminder(ctx, assignment)
	}

	return s.toResponse(ctx, assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Assignment.Delete(ctx, id); err != nil {
		s.logger.Error("删除作业失败", zap.Error(err))
		return err
	}

	s.scheduler.CancelAssignment(id)
	return nil
}

// armReminder 按用户偏好武装截止提醒
// 偏好关闭、偏好读取失败或触发时刻已过时静默跳过
func (s *assignmentService) armReminder(ctx context.Context, assignment *model.Assignment) {
	setting, err := s.notifier.ResolveSettings(ctx, assignment.UserID)
	if err != nil {
		s.logger.Warn("读取通知偏好失败，跳过提醒武装", zap.Error(err))
		return
	}
	if !setting.AssignmentReminders {
		s.scheduler.CancelAssignment(assignment.AssignmentID)
		return
	}

	s.scheduler.ArmAssignmentReminder(
		assignment.UserID, assignment.AssignmentID,
		assignment.Title, assignment.DueDate,
		setting.AssignmentReminderDays,
	)
}

// getOwned 读取作业并校验归属
func (s *assignmentService) getOwned(ctx context.Context, id string, userID string) (*model.Assignment, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.UserID != userID {
		return nil, ErrAssignmentNotOwner
	}
	return assignment, nil
}

// toResponse 单条响应（读取时关联课程，课程缺失时 Course 为 nil）
func (s *assignmentService) toResponse(ctx context.Context, assignment *model.Assignment) *dto.AssignmentResponse {
	course, err := s.repo.Course.GetByID(ctx, assignment.CourseID)
	if err != nil {
		course = nil
	}
	return toAssignmentResponse(assignment, course)
}

// loadCourseMap 批量读取课程构建 course_id → 课程映射
func (s *assignmentService) loadCourseMap(ctx context.Context, ids []string) (map[string]*model.Course, error) {
	courses, err := s.repo.Course.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询课程失败", zap.Error(err))
		return nil, err
	}
	m := make(map[string]*model.Course, len(courses))
	for i := range courses {
		m[courses[i].CourseID] = &courses[i]
	}
	return m, nil
}

// parseDueDate 解析 RFC 3339 截止时间
func parseDueDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ErrAssignmentInvalidDue
	}
	return t, nil
}

// assignmentCourseIDs 提取去重后的课程 ID 列表
func assignmentCourseIDs(assignments []model.Assignment) []string {
	seen := make(map[string]struct{}, len(assignments))
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.CourseID]; ok {
			continue
		}
		seen[a.CourseID] = struct{}{}
		ids = append(ids, a.CourseID)
	}
	return ids
}

func toAssignmentResponse(assignment *model.Assignment, course *model.Course) *dto.AssignmentResponse {
	var brief *dto.CourseBrief
	if course != nil {
		brief = toCourseBrief(course)
	}
	return &dto.AssignmentResponse{
		ID:          assignment.AssignmentID,
		CourseID:    assignment.CourseID,
		Course:      brief,
		Title:       assignment.Title,
		Description: assignment.Description,
		DueDate:     assignment.DueDate.Format(time.RFC3339),
		Priority:    assignment.Priority,
		Completed:   assignment.Completed,
		CreatedAt:   formatTimestamp(assignment.CreatedAt),
		UpdatedAt:   formatTimestamp(assignment.UpdatedAt),
	}
}
