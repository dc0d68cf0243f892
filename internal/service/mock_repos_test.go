package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course

	// 级联删除需要访问其余两个 mock
	schedules   *mockClassScheduleRepo
	assignments *mockAssignmentRepo
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%03d", len(m.courses)+1)
	}
	if course.Color == "" {
		course.Color = "#6366f1"
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByUser(_ context.Context, userID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) ListByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	var result []model.Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) DeleteCascade(_ context.Context, id string) ([]string, []string, error) {
	var scheduleIDs, assignmentIDs []string

	if m.schedules != nil {
		for sid, s := range m.schedules.schedules {
			if s.CourseID == id {
				scheduleIDs = append(scheduleIDs, sid)
				delete(m.schedules.schedules, sid)
			}
		}
	}
	if m.assignments != nil {
		for aid, a := range m.assignments.assignments {
			if a.CourseID == id {
				assignmentIDs = append(assignmentIDs, aid)
				delete(m.assignments.assignments, aid)
			}
		}
	}

	delete(m.courses, id)
	sort.Strings(scheduleIDs)
	sort.Strings(assignmentIDs)
	return scheduleIDs, assignmentIDs, nil
}

// ── Mock ClassScheduleRepository ──

type mockClassScheduleRepo struct {
	schedules map[string]*model.ClassSchedule
	seq       int
}

func newMockClassScheduleRepo() *mockClassScheduleRepo {
	return &mockClassScheduleRepo{schedules: make(map[string]*model.ClassSchedule)}
}

func (m *mockClassScheduleRepo) Create(_ context.Context, schedule *model.ClassSchedule) error {
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("sched-%03d", m.seq)
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockClassScheduleRepo) BatchCreate(ctx context.Context, schedules []model.ClassSchedule) error {
	for i := range schedules {
		if err := m.Create(ctx, &schedules[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockClassScheduleRepo) GetByID(_ context.Context, id string) (*model.ClassSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassScheduleRepo) ListByUser(_ context.Context, userID string, courseID string, dayOfWeek *int) ([]model.ClassSchedule, error) {
	var result []model.ClassSchedule
	for _, s := range m.schedules {
		if s.UserID != userID {
			continue
		}
		if courseID != "" && s.CourseID != courseID {
			continue
		}
		if dayOfWeek != nil && s.DayOfWeek != *dayOfWeek {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockClassScheduleRepo) Update(_ context.Context, schedule *model.ClassSchedule) error {
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockClassScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	seq         int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		m.seq++
		assignment.AssignmentID = fmt.Sprintf("assign-%03d", m.seq)
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByUser(_ context.Context, userID string, courseID string, completed *bool) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.UserID != userID {
			continue
		}
		if courseID != "" && a.CourseID != courseID {
			continue
		}
		if completed != nil && a.Completed != *completed {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

// ── Mock NotificationSettingRepository ──

type mockNotificationSettingRepo struct {
	settings map[string]*model.NotificationSetting
}

func newMockNotificationSettingRepo() *mockNotificationSettingRepo {
	return &mockNotificationSettingRepo{settings: make(map[string]*model.NotificationSetting)}
}

func (m *mockNotificationSettingRepo) GetByUser(_ context.Context, userID string) (*model.NotificationSetting, error) {
	if s, ok := m.settings[userID]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationSettingRepo) Upsert(_ context.Context, setting *model.NotificationSetting) error {
	m.settings[setting.UserID] = setting
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) CreateWithTagDedup(_ context.Context, notification *model.Notification) error {
	if notification.Tag != "" {
		kept := m.notifications[:0]
		for _, n := range m.notifications {
			if n.UserID == notification.UserID && n.Tag == notification.Tag && !n.IsRead {
				continue
			}
			kept = append(kept, n)
		}
		m.notifications = kept
	}

	m.seq++
	notification.NotificationID = fmt.Sprintf("notif-%03d", m.seq)
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	var result []model.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	for _, n := range m.notifications {
		if n.NotificationID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	for _, n := range m.notifications {
		if n.NotificationID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ── 聚合构建 ──

// newMockRepository 构建全 mock 的 Repository 聚合
// 课程级联删除需要跨仓库访问，已在内部接好
func newMockRepository() (*repository.Repository, *mockCourseRepo, *mockClassScheduleRepo, *mockAssignmentRepo) {
	courseRepo := newMockCourseRepo()
	scheduleRepo := newMockClassScheduleRepo()
	assignmentRepo := newMockAssignmentRepo()
	courseRepo.schedules = scheduleRepo
	courseRepo.assignments = assignmentRepo

	repo := &repository.Repository{
		User:                newMockUserRepo(),
		Course:              courseRepo,
		ClassSchedule:       scheduleRepo,
		Assignment:          assignmentRepo,
		NotificationSetting: newMockNotificationSettingRepo(),
		Notification:        newMockNotificationRepo(),
	}
	return repo, courseRepo, scheduleRepo, assignmentRepo
}
