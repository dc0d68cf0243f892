package repository

import (
	"context"

	"gorm.io/gorm"

	"study-planner/backend/internal/model"
)

// NotificationSettingRepository 通知偏好数据访问接口
type NotificationSettingRepository interface {
	GetByUser(ctx context.Context, userID string) (*model.NotificationSetting, error)
	Upsert(ctx context.Context, setting *model.NotificationSetting) error
}

type notificationSettingRepo struct {
	db *gorm.DB
}

// NewNotificationSettingRepo 创建 NotificationSettingRepository 实例
func NewNotificationSettingRepo(db *gorm.DB) NotificationSettingRepository {
	return &notificationSettingRepo{db: db}
}

func (r *notificationSettingRepo) GetByUser(ctx context.Context, userID string) (*model.NotificationSetting, error) {
	var setting model.NotificationSetting
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *notificationSettingRepo) Upsert(ctx context.Context, setting *model.NotificationSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}

// NotificationRepository 通知消息数据访问接口
type NotificationRepository interface {
	// CreateWithTagDedup 写入通知；同用户同 tag 的未读通知先被移除（去重合并）
	CreateWithTagDedup(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateWithTagDedup(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if notification.Tag != "" {
			if err := tx.Where("user_id = ? AND tag = ? AND is_read = false",
				notification.UserID, notification.Tag).
				Delete(&model.Notification{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(notification).Error
	})
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = false")
	}

	var notifications []model.Notification
	err := q.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.WithContext(ctx).Where("notification_id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}
