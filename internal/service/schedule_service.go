package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrScheduleNotFound    = errors.New("上课时段不存在")
	ErrScheduleNotOwner    = errors.New("无权操作此上课时段")
	ErrScheduleInvalidTime = errors.New("无效的上课时间")
	ErrScheduleICSEmpty    = errors.New("ICS 文件中没有可导入的时段")
)

// ScheduleService 课表业务接口
//
// 时间字段在写入时校验（"HH:MM" 形态且开始早于结束），
// 数据库中不存在非法形态的时段记录。
// 写入成功后按用户偏好武装/重新武装下一次上课提醒。
type ScheduleService interface {
	Create(ctx context.Context, userID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	Get(ctx context.Context, id string, userID string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, userID string, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error)
	Update(ctx context.Context, id string, userID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, id string, userID string) error

	// ImportICS 从 ICS 日历文件批量导入上课时段（归属指定课程）
	ImportICS(ctx context.Context, userID string, courseID string, r io.Reader) (*dto.ImportScheduleICSResponse, error)
}

type scheduleService struct {
	repo      *repository.Repository
	notifier  NotificationService
	scheduler *ReminderScheduler
	logger    *zap.Logger
	clock     func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, notifier NotificationService, scheduler *ReminderScheduler, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:      repo,
		notifier:  notifier,
		scheduler: scheduler,
		logger:    logger,
		clock:     time.Now,
	}
}

func (s *scheduleService) Create(ctx context.Context, userID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	// 创建时要求课程存在且归属当前用户；
	// 此后课程被删除时允许悬挂引用，展示时按课程缺失回退
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

	schedule := &model.ClassSchedule{
		UserID:    userID,
		CourseID:  req.CourseID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	}
	if err := s.repo.ClassSchedule.Create(ctx, schedule); err != nil {
		s.logger.Error("创建上课时段失败", zap.Error(err))
		return nil, err
	}

	s.armReminder(ctx, schedule, course)

	return s.toResponse(ctx, schedule), nil
}

func (s *scheduleService) Get(ctx context.Context, id string, userID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, schedule), nil
}

func (s *scheduleService) List(ctx context.Context, userID string, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.ClassSchedule.ListByUser(ctx, userID, req.CourseID, req.DayOfWeek)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}

	courses, err := s.loadCourseMap(ctx, scheduleCourseIDs(schedules))
	if err != nil {
		return nil, err
	}

	result := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *toScheduleResponse(&schedules[i], courses[schedules[i].CourseID]))
	}
	return result, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, userID string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := s.getOwned(ctx, id, userID)
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
		schedule.CourseID = *req.CourseID
	}
	if req.DayOfWeek != nil {
		schedule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.Location != nil {
		schedule.Location = *req.Location
	}

	if err := validateTimeRange(schedule.StartTime, schedule.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.ClassSchedule.Update(ctx, schedule); err != nil {
		s.logger.Error("更新上课时段失败", zap.Error(err))
		return nil, err
	}

	// 编辑后重新武装：旧定时器按句柄替换，不会留下陈旧提醒
	course, _ := s.repo.Course.GetByID(ctx, schedule.CourseID)
	s.armReminder(ctx, schedule, course)

	return toScheduleResponse(schedule, course), nil
}

func (s *scheduleService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.ClassSchedule.Delete(ctx, id); err != nil {
		s.logger.Error("删除上课时段失败", zap.Error(err))
		return err
	}

	s.scheduler.CancelSchedule(id)
	return nil
}

func (s *scheduleService) ImportICS(ctx context.Context, userID string, courseID string, r io.Reader) (*dto.ImportScheduleICSResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.UserID != userID {
		return nil, ErrCourseNotOwner
	}

	schedules, err := ParseScheduleICS(r, userID, courseID)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrScheduleICSEmpty
	}

	if err := s.repo.ClassSchedule.BatchCreate(ctx, schedules); err != nil {
		s.logger.Error("批量写入导入时段失败", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		s.armReminder(ctx, &schedules[i], course)
		responses = append(responses, *toScheduleResponse(&schedules[i], course))
	}

	s.logger.Info("ICS 导入完成",
		zap.String("course_id", courseID),
		zap.Int("imported", len(schedules)),
	)

	return &dto.ImportScheduleICSResponse{
		ImportedCount: len(schedules),
		Schedules:     responses,
	}, nil
}

// armReminder 按用户偏好武装下一次上课提醒
// 偏好关闭、偏好读取失败或一周内无未来发生时刻时静默跳过
func (s *scheduleService) armReminder(ctx context.Context, schedule *model.ClassSchedule, course *model.Course) {
	setting, err := s.notifier.ResolveSettings(ctx, schedule.UserID)
	if err != nil {
		s.logger.Warn("读取通知偏好失败，跳过提醒武装", zap.Error(err))
		return
	}
	if !setting.ClassReminders {
		s.scheduler.CancelSchedule(schedule.ScheduleID)
		return
	}

	occurrence, ok := NextClassOccurrence(s.clock(), schedule.DayOfWeek, schedule.StartTime)
	if !ok {
		s.logger.Debug("未找到未来上课时刻，跳过提醒武装",
			zap.String("schedule_id", schedule.ScheduleID))
		return
	}

	className := fallbackClassTitle
	if course != nil {
		className = course.Name
	}
	s.scheduler.ArmClassReminder(
		schedule.UserID, schedule.ScheduleID,
		className, schedule.Location,
		occurrence, setting.ReminderTime,
	)
}

// getOwned 读取上课时段并校验归属
func (s *scheduleService) getOwned(ctx context.Context, id string, userID string) (*model.ClassSchedule, error) {
	schedule, err := s.repo.ClassSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if schedule.UserID != userID {
		return nil, ErrScheduleNotOwner
	}
	return schedule, nil
}

// toResponse 单条响应（读取时关联课程，课程缺失时 Course 为 nil）
func (s *scheduleService) toResponse(ctx context.Context, schedule *model.ClassSchedule) *dto.ScheduleResponse {
	course, err := s.repo.Course.GetByID(ctx, schedule.CourseID)
	if err != nil {
		course = nil
	}
	return toScheduleResponse(schedule, course)
}

// loadCourseMap 批量读取课程构建 course_id → 课程映射
func (s *scheduleService) loadCourseMap(ctx context.Context, ids []string) (map[string]*model.Course, error) {
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

// validateTimeRange 校验 "HH:MM" 形态且开始严格早于结束
func validateTimeRange(startTime, endTime string) error {
	sh, sm, err := parseClockTime(startTime)
	if err != nil {
		return ErrScheduleInvalidTime
	}
	eh, em, err := parseClockTime(endTime)
	if err != nil {
		return ErrScheduleInvalidTime
	}
	if sh*60+sm >= eh*60+em {
		return ErrScheduleInvalidTime
	}
	return nil
}

// scheduleCourseIDs 提取去重后的课程 ID 列表
func scheduleCourseIDs(schedules []model.ClassSchedule) []string {
	seen := make(map[string]struct{}, len(schedules))
	ids := make([]string, 0, len(schedules))
	for _, s := range schedules {
		if _, ok := seen[s.CourseID]; ok {
			continue
		}
		seen[s.CourseID] = struct{}{}
		ids = append(ids, s.CourseID)
	}
	return ids
}

func toScheduleResponse(schedule *model.ClassSchedule, course *model.Course) *dto.ScheduleResponse {
	var brief *dto.CourseBrief
	if course != nil {
		brief = toCourseBrief(course)
	}
	return &dto.ScheduleResponse{
		ID:        schedule.ScheduleID,
		CourseID:  schedule.CourseID,
		Course:    brief,
		DayOfWeek: schedule.DayOfWeek,
		StartTime: schedule.StartTime,
		EndTime:   schedule.EndTime,
		Location:  schedule.Location,
		CreatedAt: formatTimestamp(schedule.CreatedAt),
		UpdatedAt: formatTimestamp(schedule.UpdatedAt),
	}
}
