package handler

import "study-planner/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Course       *CourseHandler
	Schedule     *ScheduleHandler
	Assignment   *AssignmentHandler
	Calendar     *CalendarHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Course:       NewCourseHandler(svc.Course),
		Schedule:     NewScheduleHandler(svc.Schedule),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Calendar:     NewCalendarHandler(svc.Calendar),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
