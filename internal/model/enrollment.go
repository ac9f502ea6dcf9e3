package model

import "time"

// 学籍状态
const (
	EnrollmentActive      = "ACTIVE"
	EnrollmentWithdrawn   = "WITHDRAWN"
	EnrollmentTransferred = "TRANSFERRED"
)

// Enrollment 学籍表，对应 enrollments（只读）
type Enrollment struct {
	EnrollmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string    `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID     string    `gorm:"type:uuid;not null"                             json:"course_id"`
	Status       string    `gorm:"type:varchar(20);not null"                      json:"status"`
	EnrolledOn   time.Time `gorm:"type:date;not null"                             json:"enrolled_on"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
