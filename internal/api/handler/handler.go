package handler

import "github.com/fmandres92/schoolmate-backend-sub002/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	SchoolYear *SchoolYearHandler
	Curriculum *CurriculumHandler
	Slot       *SlotHandler
	Attendance *AttendanceHandler
	Compliance *ComplianceHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		SchoolYear: NewSchoolYearHandler(svc.SchoolYear, svc.Calendar),
		Curriculum: NewCurriculumHandler(svc.Curriculum),
		Slot:       NewSlotHandler(svc.Slot),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Compliance: NewComplianceHandler(svc.Compliance),
	}
}
