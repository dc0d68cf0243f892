package dto

// ── 作业模块 DTO ──

// CreateAssignmentRequest 创建作业请求
type CreateAssignmentRequest struct {
	CourseID    string `json:"course_id"   binding:"required,uuid"`
	Title       string `json:"title"       binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	DueDate     string `json:"due_date"    binding:"required"` // RFC 3339
	Priority    string `json:"priority"    binding:"omitempty,oneof=low medium high"`
}

// UpdateAssignmentRequest 更新作业请求
type UpdateAssignmentRequest struct {
	CourseID    *string `json:"course_id"   binding:"omitempty,uuid"`
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"    binding:"omitempty,oneof=low medium high"`
	Completed   *bool   `json:"completed"`
}

// AssignmentListRequest 作业列表查询参数
type AssignmentListRequest struct {
	CourseID  string `form:"course_id" binding:"omitempty,uuid"`
	Completed *bool  `form:"completed"`
}

// AssignmentResponse 作业信息响应
// Course 为读取时关联查询结果；课程已删除时为 nil
type AssignmentResponse struct {
	ID          string       `json:"id"`
	CourseID    string       `json:"course_id"`
	Course      *CourseBrief `json:"course,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date"`
	Priority    string       `json:"priority"`
	Completed   bool         `json:"completed"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}
