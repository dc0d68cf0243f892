package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

// ── 通知模块业务错误 ──

var (
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrNotificationNotOwner = errors.New("无权操作此通知")
)

// NotificationService 通知偏好与站内信业务接口
//
// 设计说明：
//   - 偏好按用户懒初始化：首次读取时落库默认值
//   - DeliverReminder 为提醒投递终点：权限 (push_permission) 与
//     偏好 (push_notifications) 双重门控，任一不满足则静默丢弃
//     并记录日志（降级不报错）
//   - 同 tag 未读通知去重合并在 Repository 层完成
type NotificationService interface {
	GetSettings(ctx context.Context, userID string) (*dto.NotificationSettingResponse, error)
	UpdateSettings(ctx context.Context, userID string, req *dto.UpdateNotificationSettingRequest) (*dto.NotificationSettingResponse, error)
	SetPushPermission(ctx context.Context, userID string, permission string) (*dto.NotificationSettingResponse, error)
	List(ctx context.Context, userID string, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id string, userID string) error
	MarkAllRead(ctx context.Context, userID string) error

	// ResolveSettings 返回用户偏好模型（懒初始化），供其他模块武装提醒时读取
	ResolveSettings(ctx context.Context, userID string) (*model.NotificationSetting, error)

	// DeliverReminder 投递一条提醒（ReminderSink 实现）
	DeliverReminder(ctx context.Context, userID, title, body, tag string)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

// ────────────────────── 偏好 ──────────────────────

func (s *notificationService) GetSettings(ctx context.Context, userID string) (*dto.NotificationSettingResponse, error) {
	setting, err := s.ResolveSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSettingResponse(setting), nil
}

func (s *notificationService) UpdateSettings(ctx context.Context, userID string, req *dto.UpdateNotificationSettingRequest) (*dto.NotificationSettingResponse, error) {
	setting, err := s.ResolveSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ClassReminders != nil {
		setting.ClassReminders = *req.ClassReminders
	}
	if req.ReminderTime != nil {
		setting.ReminderTime = *req.ReminderTime
	}
	if req.AssignmentReminders != nil {
		setting.AssignmentReminders = *req.AssignmentReminders
	}
	if req.AssignmentReminderDays != nil {
		setting.AssignmentReminderDays = *req.AssignmentReminderDays
	}
	if req.EmailNotifications != nil {
		setting.EmailNotifications = *req.EmailNotifications
	}
	if req.PushNotifications != nil {
		setting.PushNotifications = *req.PushNotifications
	}

	if err := s.repo.NotificationSetting.Upsert(ctx, setting); err != nil {
		s.logger.Error("更新通知偏好失败", zap.Error(err))
		return nil, err
	}

	return toSettingResponse(setting), nil
}

func (s *notificationService) SetPushPermission(ctx context.Context, userID string, permission string) (*dto.NotificationSettingResponse, error) {
	setting, err := s.ResolveSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	setting.PushPermission = permission
	if err := s.repo.NotificationSetting.Upsert(ctx, setting); err != nil {
		s.logger.Error("更新推送权限失败", zap.Error(err))
		return nil, err
	}

	return toSettingResponse(setting), nil
}

// ResolveSettings 读取偏好，不存在时落库默认值
func (s *notificationService) ResolveSettings(ctx context.Context, userID string) (*model.NotificationSetting, error) {
	setting, err := s.repo.NotificationSetting.GetByUser(ctx, userID)
	if err == nil {
		return setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询通知偏好失败", zap.Error(err))
		return nil, err
	}

	setting = defaultNotificationSetting(userID)
	if err := s.repo.NotificationSetting.Upsert(ctx, setting); err != nil {
		s.logger.Error("初始化通知偏好失败", zap.Error(err))
		return nil, err
	}
	return setting, nil
}

// ────────────────────── 站内信 ──────────────────────

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.Notification.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, dto.NotificationResponse{
			ID:        n.NotificationID,
			Title:     n.Title,
			Body:      n.Body,
			Tag:       n.Tag,
			IsRead:    n.IsRead,
			CreatedAt: formatTimestamp(n.CreatedAt),
		})
	}
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string, userID string) error {
	notification, err := s.repo.Notification.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrNotificationNotOwner
	}
	return s.repo.Notification.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

// ────────────────────── 提醒投递 ──────────────────────

func (s *notificationService) DeliverReminder(ctx context.Context, userID, title, body, tag string) {
	setting, err := s.ResolveSettings(ctx, userID)
	if err != nil {
		s.logger.Warn("投递提醒时读取偏好失败，提醒丢弃",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return
	}

	// 双重门控：平台权限 + 用户偏好，任一不满足则静默丢弃
	if setting.PushPermission != model.PushPermissionGranted || !setting.PushNotifications {
		s.logger.Debug("推送被门控拦截，提醒丢弃",
			zap.String("user_id", userID),
			zap.String("permission", setting.PushPermission),
			zap.Bool("push_notifications", setting.PushNotifications),
		)
		return
	}

	notification := &model.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Tag:    tag,
	}
	if err := s.repo.Notification.CreateWithTagDedup(ctx, notification); err != nil {
		s.logger.Warn("写入通知失败，提醒丢弃", zap.Error(err))
		return
	}

	s.logger.Info("提醒已投递",
		zap.String("user_id", userID),
		zap.String("title", title),
		zap.String("tag", tag),
	)
}

// ── 内部辅助 ──

// defaultNotificationSetting 偏好默认值
func defaultNotificationSetting(userID string) *model.NotificationSetting {
	return &model.NotificationSetting{
		UserID:                 userID,
		ClassReminders:         true,
		ReminderTime:           15,
		AssignmentReminders:    true,
		AssignmentReminderDays: 1,
		EmailNotifications:     true,
		PushNotifications:      true,
		PushPermission:         model.PushPermissionDefault,
	}
}

func toSettingResponse(setting *model.NotificationSetting) *dto.NotificationSettingResponse {
	return &dto.NotificationSettingResponse{
		ClassReminders:         setting.ClassReminders,
		ReminderTime:           setting.ReminderTime,
		AssignmentReminders:    setting.AssignmentReminders,
		AssignmentReminderDays: setting.AssignmentReminderDays,
		EmailNotifications:     setting.EmailNotifications,
		PushNotifications:      setting.PushNotifications,
		PushPermission:         setting.PushPermission,
	}
}
