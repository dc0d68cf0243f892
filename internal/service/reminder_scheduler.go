package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ── 提醒调度器 ──────────────────────────────────────────────
//
// 职责：为课程与作业计算提醒触发时刻，并以一次性延迟任务投递。
//
// 设计决策：
//   - 定时器句柄按来源记录 ID 保存 → 编辑/删除记录时可显式取消
//     或重新武装，杜绝"记录已删、提醒仍响"的陈旧提醒
//   - 触发时刻已过则静默跳过，不补投、不报错
//   - 投递经由 ReminderSink，权限与偏好门控在投递侧判定
//   - clock 可注入，测试无需真实等待
// ─────────────────────────────────────────────────────────────

// ReminderSink 提醒投递接口
// 实现方负责权限/偏好门控与最终呈现（站内信、日志等）
type ReminderSink interface {
	DeliverReminder(ctx context.Context, userID, title, body, tag string)
}

// ReminderScheduler 一次性提醒调度器
type ReminderScheduler struct {
	sink   ReminderSink
	logger *zap.Logger
	clock  func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewReminderScheduler 创建 ReminderScheduler 实例
func NewReminderScheduler(sink ReminderSink, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		sink:   sink,
		logger: logger,
		clock:  time.Now,
		timers: make(map[string]*time.Timer),
	}
}

// NextClassOccurrence 计算每周时段的最近一次未来发生时刻
//
// 从 now 起向后扫描 7 天（含当天），找到 weekday 匹配的日期并与
// "HH:MM" 合成；合成时刻必须严格晚于 now。扫描无果（结构上仅在
// 扫描窗口被缩短时可能）返回 ok=false。
func NextClassOccurrence(now time.Time, dayOfWeek int, startTime string) (time.Time, bool) {
	hour, minute, err := parseClockTime(startTime)
	if err != nil {
		return time.Time{}, false
	}

	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i)
		if int(day.Weekday()) != dayOfWeek {
			continue
		}
		occurrence := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		if occurrence.After(now) {
			return occurrence, true
		}
	}
	return time.Time{}, false
}

// ArmClassReminder 武装课程提醒
// 触发时刻 = 上课时刻 − minutesBefore 分钟；已过则不武装。
// 同一时段重复武装时旧定时器被替换。
func (s *ReminderScheduler) ArmClassReminder(userID, scheduleID, className, location string, occurrence time.Time, minutesBefore int) {
	fireAt := occurrence.Add(-time.Duration(minutesBefore) * time.Minute)
	title := fmt.Sprintf("Class Reminder: %s", className)
	body := fmt.Sprintf("Your class starts in %d minutes at %s", minutesBefore, location)
	tag := "class-" + className

	s.arm("schedule:"+scheduleID, userID, title, body, tag, fireAt)
}

// ArmAssignmentReminder 武装作业截止提醒
// 触发时刻 = 截止时刻 − daysBefore 天；已过则不武装。
func (s *ReminderScheduler) ArmAssignmentReminder(userID, assignmentID, title string, dueDate time.Time, daysBefore int) {
	fireAt := dueDate.AddDate(0, 0, -daysBefore)
	notifTitle := fmt.Sprintf("Assignment Due: %s", title)
	body := fmt.Sprintf("Your assignment is due in %d day(s)", daysBefore)
	tag := "assignment-" + assignmentID

	s.arm("assignment:"+assignmentID, userID, notifTitle, body, tag, fireAt)
}

// CancelSchedule 取消某上课时段的挂起提醒
func (s *ReminderScheduler) CancelSchedule(scheduleID string) {
	s.cancel("schedule:" + scheduleID)
}

// CancelAssignment 取消某作业的挂起提醒
func (s *ReminderScheduler) CancelAssignment(assignmentID string) {
	s.cancel("assignment:" + assignmentID)
}

// Stop 取消全部挂起提醒（进程优雅关闭时调用）
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

// PendingCount 当前挂起的提醒数量
func (s *ReminderScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// arm 以 key 武装一次性提醒；fireAt 不晚于当前时刻时静默跳过
func (s *ReminderScheduler) arm(key, userID, title, body, tag string, fireAt time.Time) {
	delay := fireAt.Sub(s.clock())
	if delay <= 0 {
		s.logger.Debug("提醒触发时刻已过，跳过武装",
			zap.String("key", key),
			zap.Time("fire_at", fireAt),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[key]; ok {
		old.Stop()
	}

	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()

		s.sink.DeliverReminder(context.Background(), userID, title, body, tag)
	})

	s.logger.Debug("提醒已武装",
		zap.String("key", key),
		zap.Time("fire_at", fireAt),
	)
}

// cancel 取消并移除 key 对应的定时器（不存在则无操作）
func (s *ReminderScheduler) cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

// parseClockTime 解析 "HH:MM" 为时与分
func parseClockTime(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("无效的时间格式: %q", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("无效的小时: %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("无效的分钟: %q", value)
	}
	return hour, minute, nil
}
