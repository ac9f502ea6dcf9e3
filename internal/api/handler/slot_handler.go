package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/service"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/response"
)

// SlotHandler 周课表模块 HTTP 处理器
type SlotHandler struct {
	slotSvc service.ScheduleSlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(slotSvc service.ScheduleSlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// ListSlots 班级周课表
// GET /api/v1/slots?course_id=
func (h *SlotHandler) ListSlots(c *gin.Context) {
	courseID := c.Query("course_id")
	if courseID == "" {
		response.BadRequest(c, 10001, "course_id 不能为空")
		return
	}

	list, err := h.slotSvc.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateSlot 创建课表时段
// POST /api/v1/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.slotSvc.CreateSlot(c.Request.Context(), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, slot)
}

// DeactivateSlot 停用课表时段
// DELETE /api/v1/slots/:id
func (h *SlotHandler) DeactivateSlot(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.slotSvc.DeactivateSlot(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
