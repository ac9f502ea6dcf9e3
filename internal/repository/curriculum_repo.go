package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
)

// CurriculumRepository 课程计划（周课时配额）数据访问接口
type CurriculumRepository interface {
	Create(ctx context.Context, a *model.CurriculumAllocation) error
	GetByID(ctx context.Context, id string) (*model.CurriculumAllocation, error)
	// FindActive 返回 (科目, 年级, 学年) 的有效配额
	FindActive(ctx context.Context, subjectID, gradeID, schoolYearID string) (*model.CurriculumAllocation, error)
	List(ctx context.Context, schoolYearID, gradeID string) ([]model.CurriculumAllocation, error)
	Update(ctx context.Context, a *model.CurriculumAllocation) error
}

type curriculumRepo struct {
	db *gorm.DB
}

// NewCurriculumRepo 创建 CurriculumRepository 实例
func NewCurriculumRepo(db *gorm.DB) CurriculumRepository {
	return &curriculumRepo{db: db}
}

func (r *curriculumRepo) Create(ctx context.Context, a *model.CurriculumAllocation) error {
	return translateError(r.db.WithContext(ctx).Create(a).Error)
}

func (r *curriculumRepo) GetByID(ctx context.Context, id string) (*model.CurriculumAllocation, error) {
	var a model.CurriculumAllocation
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Grade").
		Where("allocation_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *curriculumRepo) FindActive(ctx context.Context, subjectID, gradeID, schoolYearID string) (*model.CurriculumAllocation, error) {
	var a model.CurriculumAllocation
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND grade_id = ? AND school_year_id = ? AND active = ?",
			subjectID, gradeID, schoolYearID, true).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List gradeID 为空时返回整个学年的有效配额
func (r *curriculumRepo) List(ctx context.Context, schoolYearID, gradeID string) ([]model.CurriculumAllocation, error) {
	var list []model.CurriculumAllocation
	db := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Grade").
		Where("school_year_id = ? AND active = ?", schoolYearID, true)
	if gradeID != "" {
		db = db.Where("grade_id = ?", gradeID)
	}
	err := db.Order("grade_id, subject_id").Find(&list).Error
	return list, err
}

func (r *curriculumRepo) Update(ctx context.Context, a *model.CurriculumAllocation) error {
	return translateError(r.db.WithContext(ctx).
		Omit("Subject", "Grade").
		Save(a).Error)
}
