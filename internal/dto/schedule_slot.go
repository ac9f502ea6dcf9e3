package dto

// ── 周课表模块 DTO ──

// CreateSlotRequest 创建课表时段请求
// LUNCH 类型忽略 teacher_id / subject_id
type CreateSlotRequest struct {
	CourseID  string `json:"course_id"  binding:"required,uuid"`
	TeacherID string `json:"teacher_id" binding:"omitempty,uuid"`
	SubjectID string `json:"subject_id" binding:"omitempty,uuid"`
	Type      string `json:"type"       binding:"required,oneof=CLASS LUNCH"`
	Weekday   int    `json:"weekday"    binding:"required,min=1,max=7"`
	StartTime string `json:"start_time" binding:"required"` // "09:00"
	EndTime   string `json:"end_time"   binding:"required"` // "10:00"
}

// SlotResponse 课表时段响应
type SlotResponse struct {
	ID           string  `json:"id"`
	SchoolYearID string  `json:"school_year_id"`
	CourseID     string  `json:"course_id"`
	TeacherID    *string `json:"teacher_id,omitempty"`
	TeacherName  string  `json:"teacher_name,omitempty"`
	SubjectID    *string `json:"subject_id,omitempty"`
	SubjectName  string  `json:"subject_name,omitempty"`
	Type         string  `json:"type"`
	Weekday      int     `json:"weekday"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Active       bool    `json:"active"`
}
