package handler

import (
	"github.com/gin-gonic/gin"

	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/service"
	"study-planner/backend/pkg/response"
)

// CalendarHandler 日历模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// GetEvents 查询日历窗口内的事件
// GET /api/v1/calendar/events?days=30
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CalendarEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.GetEvents(c.Request.Context(), userID, req.Days)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
