package dto

// ── 课程计划模块 DTO ──

// CreateCurriculumRequest 创建课程计划请求
type CreateCurriculumRequest struct {
	SubjectID    string `json:"subject_id"     binding:"required,uuid"`
	GradeID      string `json:"grade_id"       binding:"required,uuid"`
	SchoolYearID string `json:"school_year_id" binding:"required,uuid"`
	WeeklyHours  int    `json:"weekly_hours"   binding:"required,min=1,max=40"`
}

// UpdateCurriculumRequest 调整周课时
type UpdateCurriculumRequest struct {
	WeeklyHours int `json:"weekly_hours" binding:"required,min=1,max=40"`
}

// ListCurriculumRequest 列表查询参数
type ListCurriculumRequest struct {
	SchoolYearID string `form:"school_year_id" binding:"required,uuid"`
	GradeID      string `form:"grade_id"       binding:"omitempty,uuid"`
}

// CurriculumResponse 课程计划响应
type CurriculumResponse struct {
	ID           string `json:"id"`
	SubjectID    string `json:"subject_id"`
	SubjectName  string `json:"subject_name,omitempty"`
	GradeID      string `json:"grade_id"`
	GradeName    string `json:"grade_name,omitempty"`
	SchoolYearID string `json:"school_year_id"`
	WeeklyHours  int    `json:"weekly_hours"`
	Active       bool   `json:"active"`
}
