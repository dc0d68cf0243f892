package repository

import (
	"context"

	"gorm.io/gorm"

	"study-planner/backend/internal/model"
)

// ClassScheduleRepository 课表数据访问接口
type ClassScheduleRepository interface {
	Create(ctx context.Context, schedule *model.ClassSchedule) error
	BatchCreate(ctx context.Context, schedules []model.ClassSchedule) error
	GetByID(ctx context.Context, id string) (*model.ClassSchedule, error)
	ListByUser(ctx context.Context, userID string, courseID string, dayOfWeek *int) ([]model.ClassSchedule, error)
	Update(ctx context.Context, schedule *model.ClassSchedule) error
	Delete(ctx context.Context, id string) error
}

type classScheduleRepo struct {
	db *gorm.DB
}

// NewClassScheduleRepo 创建 ClassScheduleRepository 实例
func NewClassScheduleRepo(db *gorm.DB) ClassScheduleRepository {
	return &classScheduleRepo{db: db}
}

func (r *classScheduleRepo) Create(ctx context.Context, schedule *model.ClassSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *classScheduleRepo) BatchCreate(ctx context.Context, schedules []model.ClassSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&schedules).Error
}

func (r *classScheduleRepo) GetByID(ctx context.Context, id string) (*model.ClassSchedule, error) {
	var schedule model.ClassSchedule
	err := r.db.WithContext(ctx).Where("schedule_id = ?", id).First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *classScheduleRepo) ListByUser(ctx context.Context, userID string, courseID string, dayOfWeek *int) ([]model.ClassSchedule, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}
	if dayOfWeek != nil {
		q = q.Where("day_of_week = ?", *dayOfWeek)
	}

	var schedules []model.ClassSchedule
	err := q.Order("day_of_week ASC, start_time ASC").Find(&schedules).Error
	return schedules, err
}

func (r *classScheduleRepo) Update(ctx context.Context, schedule *model.ClassSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *classScheduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("schedule_id = ?", id).Delete(&model.ClassSchedule{}).Error
}
