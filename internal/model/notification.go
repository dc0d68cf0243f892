package model

// 推送权限状态（对应浏览器 Notification.permission 三态）
const (
	PushPermissionGranted = "granted"
	PushPermissionDenied  = "denied"
	PushPermissionDefault = "default"
)

// Notification 通知消息表 — 对应 notifications
// tag 用于同源提醒去重：同 tag 的未读通知被替换而非累积
type Notification struct {
	NotificationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string `gorm:"type:uuid;not null"                             json:"user_id"`
	Title          string `gorm:"type:varchar(200);not null"                     json:"title"`
	Body           string `gorm:"type:text;not null"                             json:"body"`
	Tag            string `gorm:"type:varchar(200);not null;default:''"          json:"tag"`
	IsRead         bool   `gorm:"not null;default:false"                         json:"is_read"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// NotificationSetting 通知偏好表 — 对应 notification_settings（与 users 1:1）
type NotificationSetting struct {
	UserID                 string `gorm:"type:uuid;primaryKey"          json:"user_id"`
	ClassReminders         bool   `gorm:"not null;default:true"         json:"class_reminders"`
	ReminderTime           int    `gorm:"type:smallint;not null;default:15" json:"reminder_time"` // 课前提醒分钟数
	AssignmentReminders    bool   `gorm:"not null;default:true"         json:"assignment_reminders"`
	AssignmentReminderDays int    `gorm:"type:smallint;not null;default:1"  json:"assignment_reminder_days"` // 截止前提醒天数
	EmailNotifications     bool   `gorm:"not null;default:true"         json:"email_notifications"`
	PushNotifications      bool   `gorm:"not null;default:true"         json:"push_notifications"`
	PushPermission         string `gorm:"type:varchar(10);not null;default:'default'" json:"push_permission"` // granted | denied | default
	BaseModel
}

// TableName 指定表名
func (NotificationSetting) TableName() string { return "notification_settings" }
