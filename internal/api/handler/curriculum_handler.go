package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/service"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/response"
)

// CurriculumHandler 课程计划模块 HTTP 处理器
type CurriculumHandler struct {
	curriculumSvc service.CurriculumService
}

// NewCurriculumHandler 创建 CurriculumHandler
func NewCurriculumHandler(curriculumSvc service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculumSvc: curriculumSvc}
}

// ListCurriculum 课程计划列表
// GET /api/v1/curriculum?school_year_id=&grade_id=
func (h *CurriculumHandler) ListCurriculum(c *gin.Context) {
	var req dto.ListCurriculumRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.curriculumSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateCurriculum 创建课程计划
// POST /api/v1/curriculum
func (h *CurriculumHandler) CreateCurriculum(c *gin.Context) {
	var req dto.CreateCurriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.curriculumSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateCurriculum 调整周课时
// PUT /api/v1/curriculum/:id
func (h *CurriculumHandler) UpdateCurriculum(c *gin.Context) {
	var req dto.UpdateCurriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.curriculumSvc.UpdateHours(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// DeactivateCurriculum 停用课程计划
// DELETE /api/v1/curriculum/:id
func (h *CurriculumHandler) DeactivateCurriculum(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.curriculumSvc.Deactivate(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
