package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=100"`
	Code        string `json:"code"        binding:"required,min=1,max=20"`
	Description string `json:"description" binding:"max=2000"`
	Instructor  string `json:"instructor"  binding:"max=100"`
	Color       string `json:"color"       binding:"omitempty,hexcolor"`
	Progress    *int   `json:"progress"    binding:"omitempty"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=100"`
	Code        *string `json:"code"        binding:"omitempty,min=1,max=20"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Instructor  *string `json:"instructor"  binding:"omitempty,max=100"`
	Color       *string `json:"color"       binding:"omitempty,hexcolor"`
	Progress    *int    `json:"progress"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	Color       string `json:"color"`
	Progress    int    `json:"progress"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CourseBrief 课程简要信息（嵌入课表/作业响应）
type CourseBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
}
