package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User                UserRepository
	Course              CourseRepository
	ClassSchedule       ClassScheduleRepository
	Assignment          AssignmentRepository
	NotificationSetting NotificationSettingRepository
	Notification        NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:                NewUserRepo(db),
		Course:              NewCourseRepo(db),
		ClassSchedule:       NewClassScheduleRepo(db),
		Assignment:          NewAssignmentRepo(db),
		NotificationSetting: NewNotificationSettingRepo(db),
		Notification:        NewNotificationRepo(db),
	}
}
