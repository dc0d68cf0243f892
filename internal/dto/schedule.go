package dto

// ── 课表模块 DTO ──

// CreateScheduleRequest 创建上课时段请求
type CreateScheduleRequest struct {
	CourseID  string `json:"course_id"   binding:"required,uuid"`
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"` // 0=周日 … 6=周六
	StartTime string `json:"start_time"  binding:"required"`             // "09:00"
	EndTime   string `json:"end_time"    binding:"required"`             // "10:30"
	Location  string `json:"location"    binding:"max=200"`
}

// UpdateScheduleRequest 更新上课时段请求
type UpdateScheduleRequest struct {
	CourseID  *string `json:"course_id"   binding:"omitempty,uuid"`
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Location  *string `json:"location"    binding:"omitempty,max=200"`
}

// ScheduleListRequest 课表列表查询参数
type ScheduleListRequest struct {
	CourseID  string `form:"course_id"   binding:"omitempty,uuid"`
	DayOfWeek *int   `form:"day_of_week" binding:"omitempty,min=0,max=6"`
}

// ScheduleResponse 上课时段响应
// Course 为读取时关联查询结果；课程已删除时为 nil
type ScheduleResponse struct {
	ID        string       `json:"id"`
	CourseID  string       `json:"course_id"`
	Course    *CourseBrief `json:"course,omitempty"`
	DayOfWeek int          `json:"day_of_week"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Location  string       `json:"location"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// ImportScheduleICSRequest ICS 导入请求（表单外的元信息）
type ImportScheduleICSRequest struct {
	CourseID string `form:"course_id" binding:"required,uuid"`
}

// ImportScheduleICSResponse ICS 导入响应
type ImportScheduleICSResponse struct {
	ImportedCount int                `json:"imported_count"`
	Schedules     []ScheduleResponse `json:"schedules"`
}
