package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound = errors.New("课程不存在")
	ErrCourseNotOwner = errors.New("无权操作此课程")
)

// CourseService 课程业务接口
//
// 删除为级联删除：课程及其全部上课时段与作业在同一事务中移除，
// 被删记录的挂起提醒随之取消。
type CourseService interface {
	Create(ctx context.Context, userID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Get(ctx context.Context, id string, userID string) (*dto.CourseResponse, error)
	List(ctx context.Context, userID string) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id string, userID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string, userID string) error
}

type courseService struct {
	repo      *repository.Repository
	scheduler *ReminderScheduler
	logger    *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, scheduler *ReminderScheduler, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, scheduler: scheduler, logger: logger}
}

func (s *courseService) Create(ctx context.Context, userID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		UserID:      userID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Instructor:  req.Instructor,
		Color:       req.Color,
	}
	if course.Color == "" {
		course.Color = defaultClassColor
	}
	if req.Progress != nil {
		course.Progress = clampProgress(*req.Progress)
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程已创建", zap.String("course_id", course.CourseID), zap.String("name", course.Name))

	return toCourseResponse(course), nil
}

func (s *courseService) Get(ctx context.Context, id string, userID string) (*dto.CourseResponse, error) {
	course, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, userID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

func (s *courseService) Update(ctx context.Context, id string, userID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.Color != nil {
		course.Color = *req.Color
	}
	if req.Progress != nil {
		course.Progress = clampProgress(*req.Progress)
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}

	scheduleIDs, assignmentIDs, err := s.repo.Course.DeleteCascade(ctx, id)
	if err != nil {
		s.logger.Error("级联删除课程失败", zap.Error(err))
		return err
	}

	// 被级联删除的记录不再产生提醒
	for _, sid := range scheduleIDs {
		s.scheduler.CancelSchedule(sid)
	}
	for _, aid := range assignmentIDs {
		s.scheduler.CancelAssignment(aid)
	}

	s.logger.Info("课程已级联删除",
		zap.String("course_id", id),
		zap.Int("schedules", len(scheduleIDs)),
		zap.Int("assignments", len(assignmentIDs)),
	)
	return nil
}

// getOwned 读取课程并校验归属
func (s *courseService) getOwned(ctx context.Context, id string, userID string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.UserID != userID {
		return nil, ErrCourseNotOwner
	}
	return course, nil
}

// clampProgress 进度钳制到 [0, 100]
func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

func toCourseResponse(course *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:          course.CourseID,
		Name:        course.Name,
		Code:        course.Code,
		Description: course.Description,
		Instructor:  course.Instructor,
		Color:       course.Color,
		Progress:    course.Progress,
		CreatedAt:   formatTimestamp(course.CreatedAt),
		UpdatedAt:   formatTimestamp(course.UpdatedAt),
	}
}
