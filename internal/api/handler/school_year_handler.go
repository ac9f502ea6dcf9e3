package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/service"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/response"
)

// SchoolYearHandler 学年与校历模块 HTTP 处理器
type SchoolYearHandler struct {
	schoolYearSvc service.SchoolYearService
	calendarSvc   service.CalendarService
}

// NewSchoolYearHandler 创建 SchoolYearHandler
func NewSchoolYearHandler(schoolYearSvc service.SchoolYearService, calendarSvc service.CalendarService) *SchoolYearHandler {
	return &SchoolYearHandler{schoolYearSvc: schoolYearSvc, calendarSvc: calendarSvc}
}

// ListSchoolYears 获取学年列表
// GET /api/v1/school-years
func (h *SchoolYearHandler) ListSchoolYears(c *gin.Context) {
	list, err := h.schoolYearSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetSchoolYear 获取学年详情
// GET /api/v1/school-years/:id
func (h *SchoolYearHandler) GetSchoolYear(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学年ID不能为空")
		return
	}

	sy, err := h.schoolYearSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, sy)
}

// GetCurrentSchoolYear 获取当前学年
// GET /api/v1/school-years/current
func (h *SchoolYearHandler) GetCurrentSchoolYear(c *gin.Context) {
	sy, err := h.schoolYearSvc.GetCurrent(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, sy)
}

// CreateSchoolYear 创建学年
// POST /api/v1/school-years
func (h *SchoolYearHandler) CreateSchoolYear(c *gin.Context) {
	var req dto.CreateSchoolYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sy, err := h.schoolYearSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, sy)
}

// UpdateSchoolYear 更新学年
// PUT /api/v1/school-years/:id
func (h *SchoolYearHandler) UpdateSchoolYear(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学年ID不能为空")
		return
	}

	var req dto.UpdateSchoolYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sy, err := h.schoolYearSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, sy)
}

// ActivateSchoolYear 设为当前学年
// PUT /api/v1/school-years/:id/activate
func (h *SchoolYearHandler) ActivateSchoolYear(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学年ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.schoolYearSvc.Activate(c.Request.Context(), id, callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 非上课日 ──

// ListNonSchoolDays 获取学年的非上课日
// GET /api/v1/school-years/:id/non-school-days
func (h *SchoolYearHandler) ListNonSchoolDays(c *gin.Context) {
	days, err := h.calendarSvc.ListNonSchoolDays(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": days})
}

// CreateNonSchoolDays 登记非上课日（单日或区间）
// POST /api/v1/school-years/:id/non-school-days
func (h *SchoolYearHandler) CreateNonSchoolDays(c *gin.Context) {
	var req dto.CreateNonSchoolDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	days, err := h.calendarSvc.CreateNonSchoolDays(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, gin.H{"list": days})
}

// DeleteNonSchoolDay 删除非上课日
// DELETE /api/v1/non-school-days/:id
func (h *SchoolYearHandler) DeleteNonSchoolDay(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.calendarSvc.DeleteNonSchoolDay(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
