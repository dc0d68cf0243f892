package service

import (
	"go.uber.org/zap"

	"study-planner/backend/config"
	"study-planner/backend/internal/repository"
	"study-planner/backend/pkg/jwt"
	"study-planner/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Course       CourseService
	Schedule     ScheduleService
	Assignment   AssignmentService
	Calendar     CalendarService
	Notification NotificationService
	Export       ExportService

	// Scheduler 提醒调度器；进程关闭时调用 Stop 取消挂起定时器
	Scheduler *ReminderScheduler
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时 Token 黑名单降级）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	// 通知服务先于调度器：它既是偏好存取方，也是提醒投递终点
	notification := NewNotificationService(repo, logger)
	scheduler := NewReminderScheduler(notification, logger)

	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, rdb, logger),
		Course:       NewCourseService(repo, scheduler, logger),
		Schedule:     NewScheduleService(repo, notification, scheduler, logger),
		Assignment:   NewAssignmentService(repo, notification, scheduler, logger),
		Calendar:     NewCalendarService(repo, cfg.Planner.CalendarWindowDays, logger),
		Notification: notification,
		Export:       NewExportService(repo, cfg.Planner.CalendarWindowDays, logger),
		Scheduler:    scheduler,
	}
}
