package dto

// ── 考勤模块 DTO ──

// SaveAttendanceRequest 提交课堂考勤请求
type SaveAttendanceRequest struct {
	SlotID  string                    `json:"slot_id" binding:"required,uuid"`
	Date    string                    `json:"date"    binding:"required"` // "2026-04-01"
	Records []AttendanceRecordRequest `json:"records" binding:"dive"`
}

// AttendanceRecordRequest 单个学生的考勤
type AttendanceRecordRequest struct {
	StudentID   string `json:"student_id"  binding:"required,uuid"`
	Status      string `json:"status"      binding:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Observation string `json:"observation" binding:"max=500"`
}

// GetAttendanceRequest 查询课堂考勤参数
type GetAttendanceRequest struct {
	SlotID string `form:"slot_id" binding:"required,uuid"`
	Date   string `form:"date"    binding:"required"`
}

// ClassSessionResponse 课堂考勤响应
type ClassSessionResponse struct {
	SessionID string                     `json:"session_id"`
	SlotID    string                     `json:"slot_id"`
	Date      string                     `json:"date"`
	CreatedAt string                     `json:"created_at"`
	UpdatedAt string                     `json:"updated_at"`
	Records   []AttendanceRecordResponse `json:"records"`
}

// AttendanceRecordResponse 考勤记录（含学生姓名）
type AttendanceRecordResponse struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
	Observation string `json:"observation,omitempty"`
}
