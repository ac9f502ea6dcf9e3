package dto

// ── 学年模块 DTO ──

// CreateSchoolYearRequest 创建学年请求
type CreateSchoolYearRequest struct {
	Year          int    `json:"year"           binding:"required,min=2000,max=2100"`
	PlanningStart string `json:"planning_start" binding:"required"` // "2026-01-05"
	TermStart     string `json:"term_start"     binding:"required"` // "2026-03-01"
	TermEnd       string `json:"term_end"       binding:"required"` // "2026-12-20"
}

// UpdateSchoolYearRequest 更新学年请求
type UpdateSchoolYearRequest struct {
	Year          *int    `json:"year"           binding:"omitempty,min=2000,max=2100"`
	PlanningStart *string `json:"planning_start"`
	TermStart     *string `json:"term_start"`
	TermEnd       *string `json:"term_end"`
}

// SchoolYearResponse 学年信息响应，state 由当前日期推导
type SchoolYearResponse struct {
	ID            string `json:"id"`
	Year          int    `json:"year"`
	PlanningStart string `json:"planning_start"`
	TermStart     string `json:"term_start"`
	TermEnd       string `json:"term_end"`
	State         string `json:"state"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ── 非上课日 ──

// CreateNonSchoolDayRequest 创建非上课日请求
// 只填 date 为单日；同时填 date 与 end_date 为连续区间（跳过周末）
type CreateNonSchoolDayRequest struct {
	Date        string `json:"date"        binding:"required"`
	EndDate     string `json:"end_date"`
	Type        string `json:"type"        binding:"required,oneof=HOLIDAY BREAK ADMINISTRATIVE OTHER"`
	Description string `json:"description" binding:"max=200"`
}

// NonSchoolDayResponse 非上课日响应
type NonSchoolDayResponse struct {
	ID           string `json:"id"`
	SchoolYearID string `json:"school_year_id"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
}
