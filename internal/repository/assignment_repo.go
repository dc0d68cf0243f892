package repository

import (
	"context"

	"gorm.io/gorm"

	"study-planner/backend/internal/model"
)

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ListByUser(ctx context.Context, userID string, courseID string, completed *bool) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).Where("assignment_id = ?", id).First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByUser(ctx context.Context, userID string, courseID string, completed *bool) ([]model.Assignment, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}

	var assignments []model.Assignment
	err := q.Order("due_date ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("assignment_id = ?", id).Delete(&model.Assignment{}).Error
}
