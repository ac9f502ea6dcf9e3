package dto

// ── 考勤合规看板 DTO ──

// TodayComplianceResponse 今日全校考勤合规
type TodayComplianceResponse struct {
	Date         string                  `json:"date"`
	Weekday      int                     `json:"weekday"`
	IsSchoolDay  bool                    `json:"is_school_day"`
	NonSchoolDay *NonSchoolDayResponse   `json:"non_school_day,omitempty"`
	Summary      ComplianceSummary       `json:"summary"`
	Teachers     []TeacherComplianceItem `json:"teachers"`
}

// ComplianceSummary 全局汇总
type ComplianceSummary struct {
	TotalBlocks  int `json:"total_blocks"`
	Done         int `json:"done"`
	Missed       int `json:"missed"`
	InProgress   int `json:"in_progress"`
	Scheduled    int `json:"scheduled"`
	TeacherCount int `json:"teacher_count"`
}

// TeacherComplianceItem 单个教师的今日合规
type TeacherComplianceItem struct {
	TeacherID            string         `json:"teacher_id"`
	TeacherName          string         `json:"teacher_name"`
	TotalBlocks          int            `json:"total_blocks"`
	Done                 int            `json:"done"`
	Missed               int            `json:"missed"`
	InProgress           int            `json:"in_progress"`
	Scheduled            int            `json:"scheduled"`
	CompliancePercentage float64        `json:"compliance_percentage"`
	LastActivityTime     *string        `json:"last_activity_time,omitempty"`
	PendingCount         int            `json:"pending_count"`
	PendingBlocks        []PendingBlock `json:"pending_blocks"`
}

// PendingBlock 待补录的课时
type PendingBlock struct {
	SlotID      string `json:"slot_id"`
	CourseName  string `json:"course_name"`
	SubjectName string `json:"subject_name,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
}

// MyTodayResponse 教师本人今日课时
type MyTodayResponse struct {
	Date         string                `json:"date"`
	IsSchoolDay  bool                  `json:"is_school_day"`
	NonSchoolDay *NonSchoolDayResponse `json:"non_school_day,omitempty"`
	Blocks       []MyBlockItem         `json:"blocks"`
}

// MyBlockItem 教师本人的单个课时状态
type MyBlockItem struct {
	SlotID            string `json:"slot_id"`
	CourseName        string `json:"course_name"`
	SubjectName       string `json:"subject_name,omitempty"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	Status            string `json:"status"`
	CaptureWindowOpen bool   `json:"capture_window_open"`
}
