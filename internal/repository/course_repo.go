package repository

import (
	"context"

	"gorm.io/gorm"

	"study-planner/backend/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListByUser(ctx context.Context, userID string) ([]model.Course, error)
	// ListByIDs 批量查询课程，供读取时关联（课表/作业/日历展示）使用
	ListByIDs(ctx context.Context, ids []string) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	// DeleteCascade 在事务中删除课程及其全部课表与作业，
	// 返回被级联删除的课表 ID 与作业 ID（供调用方取消挂起的提醒）
	DeleteCascade(ctx context.Context, id string) (scheduleIDs []string, assignmentIDs []string, err error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).Where("course_id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByUser(ctx context.Context, userID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []model.Course
	err := r.db.WithContext(ctx).Where("course_id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) DeleteCascade(ctx context.Context, id string) ([]string, []string, error) {
	var scheduleIDs, assignmentIDs []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ClassSchedule{}).
			Where("course_id = ?", id).
			Pluck("schedule_id", &scheduleIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Assignment{}).
			Where("course_id = ?", id).
			Pluck("assignment_id", &assignmentIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("course_id = ?", id).Delete(&model.ClassSchedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ?", id).Delete(&model.Course{}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return scheduleIDs, assignmentIDs, nil
}
