package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
)

// EnrollmentRepository 学籍只读访问接口
type EnrollmentRepository interface {
	// ListActiveByCourse 返回班级内状态为 ACTIVE 的学籍（含学生信息）
	ListActiveByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) ListActiveByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentActive).
		Find(&list).Error
	return list, err
}
