package model

// 以下目录实体由外部目录维护，本服务只读

// Grade 年级表，对应 grades
type Grade struct {
	GradeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	Name    string `gorm:"type:varchar(50);not null"                      json:"name"`
	Level   int    `gorm:"type:smallint;not null"                         json:"level"`
}

func (Grade) TableName() string { return "grades" }

// Course 班级表，对应 courses（某学年某年级的一个班）
type Course struct {
	CourseID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name         string `gorm:"type:varchar(50);not null"                      json:"name"` // "1°A"
	GradeID      string `gorm:"type:uuid;not null"                             json:"grade_id"`
	SchoolYearID string `gorm:"type:uuid;not null"                             json:"school_year_id"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`

	// 关联
	Grade *Grade `gorm:"foreignKey:GradeID;references:GradeID" json:"grade,omitempty"`
}

func (Course) TableName() string { return "courses" }

// Subject 科目表，对应 subjects
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Code      string `gorm:"type:varchar(20)"                               json:"code,omitempty"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
}

func (Subject) TableName() string { return "subjects" }

// Teacher 教师表，对应 teachers
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	FirstName string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email     string `gorm:"type:varchar(200)"                              json:"email,omitempty"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`

	// 可授科目集合
	Subjects []Subject `gorm:"many2many:teacher_subjects;joinForeignKey:TeacherID;joinReferences:SubjectID" json:"subjects,omitempty"`
}

func (Teacher) TableName() string { return "teachers" }

// FullName 教师全名
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// Teaches 是否具备该科目的授课资格
func (t *Teacher) Teaches(subjectID string) bool {
	for _, s := range t.Subjects {
		if s.SubjectID == subjectID {
			return true
		}
	}
	return false
}

// Student 学生表，对应 students
type Student struct {
	StudentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	FirstName string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	RUT       string `gorm:"column:rut;type:varchar(12)"                    json:"rut,omitempty"`
}

func (Student) TableName() string { return "students" }

// FullName 学生全名
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
