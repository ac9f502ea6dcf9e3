package model

// CurriculumAllocation 课程计划表，对应 curriculum_allocations
// 某学年某年级某科目的每周课时配额
type CurriculumAllocation struct {
	AllocationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allocation_id"`
	SubjectID    string `gorm:"type:uuid;not null"                             json:"subject_id"`
	GradeID      string `gorm:"type:uuid;not null"                             json:"grade_id"`
	SchoolYearID string `gorm:"type:uuid;not null"                             json:"school_year_id"`
	WeeklyHours  int    `gorm:"type:smallint;not null"                         json:"weekly_hours"`
	Active       bool   `gorm:"not null;default:true"                          json:"active"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Grade   *Grade   `gorm:"foreignKey:GradeID;references:GradeID"     json:"grade,omitempty"`
}

// TableName 指定表名
func (CurriculumAllocation) TableName() string { return "curriculum_allocations" }
