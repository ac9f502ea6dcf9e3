package model

import "time"

// ClassSession 课堂考勤表，对应 class_sessions
// (slot_id, date) 唯一：一节课一天只开一次考勤
type ClassSession struct {
	SessionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	SlotID    string    `gorm:"type:uuid;not null"                             json:"slot_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Records []AttendanceRecord `gorm:"foreignKey:SessionID" json:"records,omitempty"`
}

// TableName 指定表名
func (ClassSession) TableName() string { return "class_sessions" }

// 考勤状态
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceExcused = "EXCUSED"
)

// AttendanceRecord 学生考勤明细，对应 attendance_records（随会话整体替换）
type AttendanceRecord struct {
	RecordID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	SessionID   string    `gorm:"type:uuid;not null"                             json:"session_id"`
	StudentID   string    `gorm:"type:uuid;not null"                             json:"student_id"`
	Status      string    `gorm:"type:varchar(10);not null"                      json:"status"`
	Observation string    `gorm:"type:varchar(500)"                              json:"observation,omitempty"`
	CreatedAt   time.Time `gorm:"not null"                                       json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null"                                       json:"updated_at"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }
