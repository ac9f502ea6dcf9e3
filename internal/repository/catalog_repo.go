package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
)

// 目录实体只读访问：年级、班级、科目、教师

// GradeRepository 年级数据访问接口
type GradeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Grade, error)
}

// CourseRepository 班级数据访问接口
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
}

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	GetByID(ctx context.Context, id string) (*model.Subject, error)
}

// TeacherRepository 教师数据访问接口
type TeacherRepository interface {
	// GetByID 返回教师及其可授科目集合
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
}

type gradeRepo struct{ db *gorm.DB }

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository { return &gradeRepo{db: db} }

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.Grade, error) {
	var g model.Grade
	if err := r.db.WithContext(ctx).Where("grade_id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

type courseRepo struct{ db *gorm.DB }

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository { return &courseRepo{db: db} }

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).
		Preload("Grade").
		Where("course_id = ? AND is_active = ?", id, true).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type subjectRepo struct{ db *gorm.DB }

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository { return &subjectRepo{db: db} }

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var s model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND is_active = ?", id, true).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type teacherRepo struct{ db *gorm.DB }

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository { return &teacherRepo{db: db} }

func (r *teacherRepo) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	var t model.Teacher
	err := r.db.WithContext(ctx).
		Preload("Subjects").
		Where("teacher_id = ? AND is_active = ?", id, true).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
