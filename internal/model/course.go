package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	UserID      string `gorm:"type:uuid;not null"                             json:"user_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Code        string `gorm:"type:varchar(20);not null"                      json:"code"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	Instructor  string `gorm:"type:varchar(100);not null;default:''"          json:"instructor"`
	Color       string `gorm:"type:varchar(7);not null;default:'#6366f1'"     json:"color"`    // #rrggbb
	Progress    int    `gorm:"type:smallint;not null;default:0"               json:"progress"` // 0-100
	SoftDeleteModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
