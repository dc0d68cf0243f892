package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"study-planner/backend/internal/model"
	"study-planner/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedules  = errors.New("暂无可导出的上课时段")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 周课表导出为 Excel (.xlsx)：行按时间段、列按周日~周六呈现
//   - 日历窗口导出为 iCalendar (.ics)：课程与作业展开为 VEVENT
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportScheduleXLSX 导出周课表为 Excel
	ExportScheduleXLSX(ctx context.Context, userID string) (*bytes.Buffer, string, error)
	// ExportCalendarICS 导出固定窗口内的日历事件为 ICS
	ExportCalendarICS(ctx context.Context, userID string, days int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo        *repository.Repository
	defaultDays int
	logger      *zap.Logger
	clock       func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, defaultDays int, logger *zap.Logger) ExportService {
	return &exportService{
		repo:        repo,
		defaultDays: defaultDays,
		logger:      logger,
		clock:       time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportScheduleXLSX — 导出周课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "课程表"
//   - 行头：时间段 "HH:MM-HH:MM"（按 start_time 排序）
//   - 列头：周日 ~ 周六
//   - 单元格：课程名 (地点)；课程缺失时回退 "Class"

func (s *exportService) ExportScheduleXLSX(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	schedules, err := s.repo.ClassSchedule.ListByUser(ctx, userID, "", nil)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}
	if len(schedules) == 0 {
		return nil, "", ErrExportNoSchedules
	}

	courses, err := s.loadCourseMap(ctx, schedules, nil)
	if err != nil {
		return nil, "", err
	}

	// 收集唯一时间段（start-end），按开始时间排序作为行
	type slotKey struct {
		startTime string
		endTime   string
	}
	slotSeen := make(map[slotKey]bool)
	var slots []slotKey
	for _, sc := range schedules {
		k := slotKey{startTime: sc.StartTime, endTime: sc.EndTime}
		if !slotSeen[k] {
			slotSeen[k] = true
			slots = append(slots, k)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].startTime != slots[j].startTime {
			return slots[i].startTime < slots[j].startTime
		}
		return slots[i].endTime < slots[j].endTime
	})

	// 单元格索引: "dow:start:end" → 文本（同格多课换行拼接）
	cellIndex := make(map[string]string)
	for _, sc := range schedules {
		text := fallbackClassTitle
		if course, ok := courses[sc.CourseID]; ok {
			text = course.Name
		}
		if sc.Location != "" {
			text += " (" + sc.Location + ")"
		}

		key := fmt.Sprintf("%d:%s:%s", sc.DayOfWeek, sc.StartTime, sc.EndTime)
		if existing, ok := cellIndex[key]; ok {
			cellIndex[key] = existing + "\n" + text
		} else {
			cellIndex[key] = text
		}
	}

	// 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课程表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	dayNames := []string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

	// 列宽：A 列为时间段，B~H 为周日~周六
	f.SetColWidth(sheetName, "A", "A", 14)
	for i := range dayNames {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetColWidth(sheetName, col, col, 22)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	f.SetCellValue(sheetName, "A1", "时间")
	for i, name := range dayNames {
		f.SetCellValue(sheetName, cell(colName(1+i), 1), name)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(dayNames)), 1), headerStyle)

	// 数据行
	row := 2
	for _, slot := range slots {
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s-%s", slot.startTime, slot.endTime))
		for dow := 0; dow <= 6; dow++ {
			key := fmt.Sprintf("%d:%s:%s", dow, slot.startTime, slot.endTime)
			if text, ok := cellIndex[key]; ok {
				f.SetCellValue(sheetName, cell(colName(1+dow), row), text)
			} else {
				f.SetCellValue(sheetName, cell(colName(1+dow), row), "-")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "schedule.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendarICS — 导出日历窗口为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 上课时段展开为窗口内每次发生的 VEVENT（带起止时刻与地点）
//   - 未完成作业的截止时刻为单点 VEVENT（窗口起点之前的不导出）
//   - UID 与日历投影的事件 ID 一致，重复导出产出稳定

func (s *exportService) ExportCalendarICS(ctx context.Context, userID string, days int) (*bytes.Buffer, string, error) {
	if days <= 0 {
		days = s.defaultDays
	}

	schedules, err := s.repo.ClassSchedule.ListByUser(ctx, userID, "", nil)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}
	assignments, err := s.repo.Assignment.ListByUser(ctx, userID, "", nil)
	if err != nil {
		s.logger.Error("查询作业失败", zap.Error(err))
		return nil, "", err
	}

	courses, err := s.loadCourseMap(ctx, schedules, assignments)
	if err != nil {
		return nil, "", err
	}

	windowStart := s.clock()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//study-planner//calendar//EN")

	// 上课时段 → 窗口内每次发生
	for i := 0; i < days; i++ {
		day := windowStart.AddDate(0, 0, i)
		weekday := int(day.Weekday())

		for _, sc := range schedules {
			if sc.DayOfWeek != weekday {
				continue
			}
			sh, sm, err := parseClockTime(sc.StartTime)
			if err != nil {
				continue
			}
			eh, em, err := parseClockTime(sc.EndTime)
			if err != nil {
				continue
			}

			start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, day.Location())
			end := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, day.Location())

			title := fallbackClassTitle
			if course, ok := courses[sc.CourseID]; ok {
				title = course.Name
			}

			evt := cal.AddEvent(fmt.Sprintf("%s-%s", sc.ScheduleID, day.Format("2006-01-02")))
			evt.SetStartAt(start)
			evt.SetEndAt(end)
			evt.SetSummary(title)
			if sc.Location != "" {
				evt.SetLocation(sc.Location)
			}
		}
	}

	// 作业截止 → 单点事件（与日历投影同样的窗口起点过滤；已完成的不导出）
	for _, a := range assignments {
		if a.Completed || a.DueDate.Before(windowStart) {
			continue
		}

		evt := cal.AddEvent("assignment-" + a.AssignmentID)
		evt.SetStartAt(a.DueDate)
		evt.SetEndAt(a.DueDate)
		evt.SetSummary("Due: " + a.Title)
		if a.Description != "" {
			evt.SetDescription(a.Description)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "calendar.ics", nil
}

// loadCourseMap 汇总课表与作业引用的课程，批量查询构建映射
func (s *exportService) loadCourseMap(ctx context.Context, schedules []model.ClassSchedule, assignments []model.Assignment) (map[string]*model.Course, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, sc := range schedules {
		if _, ok := seen[sc.CourseID]; !ok {
			seen[sc.CourseID] = struct{}{}
			ids = append(ids, sc.CourseID)
		}
	}
	for _, a := range assignments {
		if _, ok := seen[a.CourseID]; !ok {
			seen[a.CourseID] = struct{}{}
			ids = append(ids, a.CourseID)
		}
	}

	courses, err := s.repo.Course.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询课程失败", zap.Error(err))
		return nil, err
	}
	m := make(map[string]*model.Course, len(courses))
	for i := range courses {
		m[courses[i].CourseID] = &courses[i]
	}
	return m, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
