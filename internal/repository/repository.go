package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	SchoolYear   SchoolYearRepository
	NonSchoolDay NonSchoolDayRepository
	Grade        GradeRepository
	Course       CourseRepository
	Subject      SubjectRepository
	Teacher      TeacherRepository
	Curriculum   CurriculumRepository
	ScheduleSlot ScheduleSlotRepository
	Enrollment   EnrollmentRepository
	ClassSession ClassSessionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		SchoolYear:   NewSchoolYearRepo(db),
		NonSchoolDay: NewNonSchoolDayRepo(db),
		Grade:        NewGradeRepo(db),
		Course:       NewCourseRepo(db),
		Subject:      NewSubjectRepo(db),
		Teacher:      NewTeacherRepo(db),
		Curriculum:   NewCurriculumRepo(db),
		ScheduleSlot: NewScheduleSlotRepo(db),
		Enrollment:   NewEnrollmentRepo(db),
		ClassSession: NewClassSessionRepo(db),
	}
}

// BeginTx 开启事务
// 单元测试中 Repository 由 mock 直接组装、db 为 nil，此时返回 nil 事务，调用方按无事务处理
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
