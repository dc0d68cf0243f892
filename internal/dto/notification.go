package dto

// ── 通知模块 DTO ──

// UpdateNotificationSettingRequest 更新通知偏好请求
// reminder_time 与 assignment_reminder_days 限定在固定选项集内
type UpdateNotificationSettingRequest struct {
	ClassReminders         *bool `json:"class_reminders"`
	ReminderTime           *int  `json:"reminder_time"            binding:"omitempty,oneof=5 10 15 30 60"`
	AssignmentReminders    *bool `json:"assignment_reminders"`
	AssignmentReminderDays *int  `json:"assignment_reminder_days" binding:"omitempty,oneof=1 2 3 7"`
	EmailNotifications     *bool `json:"email_notifications"`
	PushNotifications      *bool `json:"push_notifications"`
}

// SetPushPermissionRequest 设置推送权限状态请求
// 对应前端 Notification.requestPermission 的结果回传
type SetPushPermissionRequest struct {
	Permission string `json:"permission" binding:"required,oneof=granted denied default"`
}

// NotificationSettingResponse 通知偏好响应
type NotificationSettingResponse struct {
	ClassReminders         bool   `json:"class_reminders"`
	ReminderTime           int    `json:"reminder_time"`
	AssignmentReminders    bool   `json:"assignment_reminders"`
	AssignmentReminderDays int    `json:"assignment_reminder_days"`
	EmailNotifications     bool   `json:"email_notifications"`
	PushNotifications      bool   `json:"push_notifications"`
	PushPermission         string `json:"push_permission"`
}

// NotificationResponse 通知消息响应
type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Tag       string `json:"tag"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
}
