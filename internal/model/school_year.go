package model

import "time"

// SchoolYearState 学年生命周期状态（由日期推导，不落库）
type SchoolYearState string

const (
	SchoolYearPlanning SchoolYearState = "PLANNING"
	SchoolYearActive   SchoolYearState = "ACTIVE"
	SchoolYearClosed   SchoolYearState = "CLOSED"
)

// SchoolYear 学年表，对应 school_years
type SchoolYear struct {
	SchoolYearID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"school_year_id"`
	Year          int       `gorm:"type:smallint;not null"                         json:"year"`
	PlanningStart time.Time `gorm:"type:date;not null"                             json:"planning_start"`
	TermStart     time.Time `gorm:"type:date;not null"                             json:"term_start"`
	TermEnd       time.Time `gorm:"type:date;not null"                             json:"term_end"`
	IsActive      bool      `gorm:"not null;default:false"                         json:"is_active"` // 界面默认学年，与生命周期状态无关
	BaseModel
}

// TableName 指定表名
func (SchoolYear) TableName() string { return "school_years" }
