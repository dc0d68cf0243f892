package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

// CalendarService 日历业务接口
// 事件为纯派生数据：每次请求从课表与作业全量重算
type CalendarService interface {
	// GetEvents 投影固定窗口内的日历事件；days ≤ 0 时使用配置默认窗口
	GetEvents(ctx context.Context, userID string, days int) (*dto.CalendarEventsResponse, error)
}

type calendarService struct {
	repo        *repository.Repository
	defaultDays int
	logger      *zap.Logger
	clock       func() time.Time
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, defaultDays int, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:        repo,
		defaultDays: defaultDays,
		logger:      logger,
		clock:       time.Now,
	}
}

func (s *calendarService) GetEvents(ctx context.Context, userID string, days int) (*dto.CalendarEventsResponse, error) {
	if days <= 0 {
		days = s.defaultDays
	}

	schedules, err := s.repo.ClassSchedule.ListByUser(ctx, userID, "", nil)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByUser(ctx, userID, "", nil)
	if err != nil {
		s.logger.Error("查询作业失败", zap.Error(err))
		return nil, err
	}

	courses, err := s.loadCourseMap(ctx, schedules, assignments)
	if err != nil {
		return nil, err
	}

	windowStart := s.clock()
	events := ProjectEvents(schedules, assignments, courses, windowStart, days)

	return &dto.CalendarEventsResponse{
		WindowStart: windowStart.Format("2006-01-02"),
		WindowDays:  days,
		Events:      events,
	}, nil
}

// loadCourseMap 汇总课表与作业引用的课程，批量查询构建映射
func (s *calendarService) loadCourseMap(ctx context.Context, schedules []model.ClassSchedule, assignments []model.Assignment) (map[string]*model.Course, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, sc := range schedules {
		if _, ok := seen[sc.CourseID]; !ok {
			seen[sc.CourseID] = struct{}{}
			ids = append(ids, sc.CourseID)
		}
	}
	for _, a := range assignments {
		if _, ok := seen[a.CourseID]; !ok {
			seen[a.CourseID] = struct{}{}
			ids = append(ids, a.CourseID)
		}
	}

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
