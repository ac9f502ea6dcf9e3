package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/service"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/response"
)

// ComplianceHandler 考勤合规看板 HTTP 处理器
type ComplianceHandler struct {
	complianceSvc service.ComplianceService
}

// NewComplianceHandler 创建 ComplianceHandler
func NewComplianceHandler(complianceSvc service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceSvc: complianceSvc}
}

// TodayCompliance 全校今日考勤合规
// GET /api/v1/compliance/today?school_year_id=
func (h *ComplianceHandler) TodayCompliance(c *gin.Context) {
	result, err := h.complianceSvc.TodayCompliance(c.Request.Context(), c.Query("school_year_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// MyToday 教师本人今日课时
// GET /api/v1/compliance/me/today
func (h *ComplianceHandler) MyToday(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.complianceSvc.MyToday(c.Request.Context(), teacherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
