package model

// ClassSchedule 每周固定上课时段表 — 对应 class_schedules
//
// course_id 不设外键约束：课程删除后允许短暂悬挂引用，
// 展示与投影时按课程缺失处理（回退标题/颜色）。
type ClassSchedule struct {
	ScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	UserID     string `gorm:"type:uuid;not null"                             json:"user_id"`
	CourseID   string `gorm:"type:uuid;not null"                             json:"course_id"`
	DayOfWeek  int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0=周日 … 6=周六
	StartTime  string `gorm:"type:varchar(5);not null"                       json:"start_time"`  // "HH:MM"
	EndTime    string `gorm:"type:varchar(5);not null"                       json:"end_time"`    // "HH:MM"
	Location   string `gorm:"type:varchar(200);not null;default:''"          json:"location"`
	SoftDeleteModel
}

// TableName 指定表名
func (ClassSchedule) TableName() string { return "class_schedules" }
