package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"study-planner/backend/config"
	"study-planner/backend/internal/api/handler"
	"study-planner/backend/internal/api/middleware"
	"study-planner/backend/pkg/jwt"
	"study-planner/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(8 << 20)) // 8MB（需容纳 ICS 上传）

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录注册接口限流）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.POST("", h.Course.Create)
				courses.GET("/:id", h.Course.Get)
				courses.PUT("/:id", h.Course.Update)
				courses.DELETE("/:id", h.Course.Delete)
			}

			// 课表模块
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("", h.Schedule.List)
				schedules.POST("", h.Schedule.Create)
				schedules.POST("/import-ics", h.Schedule.ImportICS)
				schedules.GET("/:id", h.Schedule.Get)
				schedules.PUT("/:id", h.Schedule.Update)
				schedules.DELETE("/:id", h.Schedule.Delete)
			}

			// 作业模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", h.Assignment.List)
				assignments.POST("", h.Assignment.Create)
				assignments.GET("/:id", h.Assignment.Get)
				assignments.PUT("/:id", h.Assignment.Update)
				assignments.POST("/:id/toggle", h.Assignment.ToggleComplete)
				assignments.DELETE("/:id", h.Assignment.Delete)
			}

			// 日历模块
			authorized.GET("/calendar/events", h.Calendar.GetEvents)

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/settings", h.Notification.GetSettings)
				notifications.PUT("/settings", h.Notification.UpdateSettings)
				notifications.PUT("/push-permission", h.Notification.SetPushPermission)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
				notifications.POST("/:id/read", h.Notification.MarkRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/schedule.xlsx", h.Export.ExportScheduleXLSX)
				export.GET("/calendar.ics", h.Export.ExportCalendarICS)
			}
		}
	}

	return r
}
