package model

import "time"

// NonSchoolDay 非上课日表，对应 non_school_days（周末不入库）
type NonSchoolDay struct {
	NonSchoolDayID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"non_school_day_id"`
	SchoolYearID   string    `gorm:"type:uuid;not null"                             json:"school_year_id"`
	Date           time.Time `gorm:"type:date;not null"                             json:"date"`
	Type           string    `gorm:"type:varchar(20);not null"                      json:"type"` // HOLIDAY | BREAK | ADMINISTRATIVE | OTHER
	Description    string    `gorm:"type:varchar(200)"                              json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (NonSchoolDay) TableName() string { return "non_school_days" }

// 非上课日类型
const (
	NonSchoolDayHoliday        = "HOLIDAY"
	NonSchoolDayBreak          = "BREAK"
	NonSchoolDayAdministrative = "ADMINISTRATIVE"
	NonSchoolDayOther          = "OTHER"
)
