package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/service"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/response"
)

// AttendanceHandler 课堂考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// SaveAttendance 教师提交或更新当天课堂考勤
// POST /api/v1/attendance
func (h *AttendanceHandler) SaveAttendance(c *gin.Context) {
	var req dto.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.attendanceSvc.SaveAttendance(c.Request.Context(), &req, teacherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, session)
}

// GetAttendance 查询某时段某天的考勤
// GET /api/v1/attendance?slot_id=&date=
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	var req dto.GetAttendanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	callerID, isAdmin, ok := MustGetCaller(c)
	if !ok {
		return
	}

	session, err := h.attendanceSvc.GetSession(c.Request.Context(), &req, callerID, isAdmin)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, session)
}
