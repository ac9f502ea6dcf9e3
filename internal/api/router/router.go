package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/config"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/api/handler"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/api/middleware"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/jwt"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流降级放行；db 为 nil 时健康检查跳过数据库
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db, rdb))

	admin := middleware.RoleAuth(jwt.RoleAdmin)
	teacher := middleware.RoleAuth(jwt.RoleTeacher)
	anyRole := middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleTeacher)

	// ── API v1（全部需要认证） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 学年模块
		schoolYears := v1.Group("/school-years")
		{
			schoolYears.GET("", anyRole, h.SchoolYear.ListSchoolYears)
			schoolYears.GET("/current", anyRole, h.SchoolYear.GetCurrentSchoolYear)
			schoolYears.GET("/:id", anyRole, h.SchoolYear.GetSchoolYear)
			schoolYears.POST("", admin, h.SchoolYear.CreateSchoolYear)
			schoolYears.PUT("/:id", admin, h.SchoolYear.UpdateSchoolYear)
			schoolYears.PUT("/:id/activate", admin, h.SchoolYear.ActivateSchoolYear)

			// 校历
			schoolYears.GET("/:id/non-school-days", anyRole, h.SchoolYear.ListNonSchoolDays)
			schoolYears.POST("/:id/non-school-days", admin, h.SchoolYear.CreateNonSchoolDays)
		}
		v1.DELETE("/non-school-days/:id", admin, h.SchoolYear.DeleteNonSchoolDay)

		// 课程计划模块
		curriculum := v1.Group("/curriculum")
		{
			curriculum.GET("", anyRole, h.Curriculum.ListCurriculum)
			curriculum.POST("", admin, h.Curriculum.CreateCurriculum)
			curriculum.PUT("/:id", admin, h.Curriculum.UpdateCurriculum)
			curriculum.DELETE("/:id", admin, h.Curriculum.DeactivateCurriculum)
		}

		// 周课表模块
		slots := v1.Group("/slots")
		{
			slots.GET("", anyRole, h.Slot.ListSlots)
			slots.POST("", admin, h.Slot.CreateSlot)
			slots.DELETE("/:id", admin, h.Slot.DeactivateSlot)
		}

		// 考勤模块：只有授课教师本人可以录入
		attendance := v1.Group("/attendance")
		{
			attendance.POST("", teacher,
				middleware.RateLimit(rdb, cfg.Attendance.RateLimitPerMinute, time.Minute),
				h.Attendance.SaveAttendance)
			attendance.GET("", anyRole, h.Attendance.GetAttendance) // 归属在 Service 层校验
		}

		// 合规看板
		compliance := v1.Group("/compliance")
		{
			compliance.GET("/today", admin, h.Compliance.TodayCompliance)
			compliance.GET("/me/today", teacher, h.Compliance.MyToday)
		}
	}

	return r
}

// healthCheck 数据库不可用返回 503；Redis 只报告状态，不影响结果
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "skipped", "redis": "disabled"}
		code := http.StatusOK

		if db != nil {
			status["database"] = "ok"
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				status["status"] = "degraded"
				status["database"] = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "unreachable"
			}
		}

		c.JSON(code, status)
	}
}
