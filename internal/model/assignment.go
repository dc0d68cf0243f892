package model

import "time"

// 作业优先级取值
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Assignment 作业表 — 对应 assignments
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	CourseID     string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Title        string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string    `gorm:"type:text;not null;default:''"                  json:"description"`
	DueDate      time.Time `gorm:"not null"                                       json:"due_date"` // 固定时刻，非重复规则
	Priority     string    `gorm:"type:varchar(10);not null;default:'medium'"     json:"priority"` // low | medium | high
	Completed    bool      `gorm:"not null;default:false"                         json:"completed"`
	SoftDeleteModel
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }
