package model

// 课表时段类型
const (
	SlotTypeClass = "CLASS"
	SlotTypeLunch = "LUNCH"
)

// ScheduleSlot 周课表时段，对应 schedule_slots
// school_year_id 从班级冗余而来，用于教师跨班冲突的唯一索引
type ScheduleSlot struct {
	SlotID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	SchoolYearID string  `gorm:"type:uuid;not null"                             json:"school_year_id"`
	CourseID     string  `gorm:"type:uuid;not null"                             json:"course_id"`
	TeacherID    *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"` // LUNCH 为 NULL
	SubjectID    *string `gorm:"type:uuid"                                      json:"subject_id,omitempty"` // LUNCH 为 NULL
	Type         string  `gorm:"type:varchar(10);not null"                      json:"type"`                 // CLASS | LUNCH
	Weekday      int     `gorm:"type:smallint;not null"                         json:"weekday"`              // 1-7
	StartTime    string  `gorm:"type:time;not null"                             json:"start_time"`
	EndTime      string  `gorm:"type:time;not null"                             json:"end_time"`
	Active       bool    `gorm:"not null;default:true"                          json:"active"`
	BaseModel

	// 关联
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (ScheduleSlot) TableName() string { return "schedule_slots" }

// IsClass 是否为上课时段
func (s *ScheduleSlot) IsClass() bool { return s.Type == SlotTypeClass }
