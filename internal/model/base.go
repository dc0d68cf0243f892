package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 审计时间字段，业务模型统一嵌入
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SoftDeleteModel 审计字段 + 软删除
// 用户持有的记录（课程/课表/作业）走软删除，通知类记录直接物理删除
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
