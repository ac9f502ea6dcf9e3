package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// SchoolYearRepository 学年数据访问接口
type SchoolYearRepository interface {
	Create(ctx context.Context, sy *model.SchoolYear) error
	GetByID(ctx context.Context, id string) (*model.SchoolYear, error)
	GetCurrent(ctx context.Context) (*model.SchoolYear, error)
	// GetByDate 返回教学期 [term_start, term_end] 包含 date 的学年
	GetByDate(ctx context.Context, date time.Time) (*model.SchoolYear, error)
	List(ctx context.Context) ([]model.SchoolYear, error)
	// ExistsOverlapping 是否存在与 [start, end] 相交的其他学年；excludeID 为空表示不排除
	ExistsOverlapping(ctx context.Context, start, end time.Time, excludeID string) (bool, error)
	Update(ctx context.Context, sy *model.SchoolYear) error
	ClearActive(ctx context.Context) error
}

type schoolYearRepo struct {
	db *gorm.DB
}

// NewSchoolYearRepo 创建 SchoolYearRepository 实例
func NewSchoolYearRepo(db *gorm.DB) SchoolYearRepository {
	return &schoolYearRepo{db: db}
}

func (r *schoolYearRepo) Create(ctx context.Context, sy *model.SchoolYear) error {
	return translateError(r.db.WithContext(ctx).Create(sy).Error)
}

func (r *schoolYearRepo) GetByID(ctx context.Context, id string) (*model.SchoolYear, error) {
	var sy model.SchoolYear
	err := r.db.WithContext(ctx).
		Where("school_year_id = ?", id).
		First(&sy).Error
	if err != nil {
		return nil, err
	}
	return &sy, nil
}

func (r *schoolYearRepo) GetCurrent(ctx context.Context) (*model.SchoolYear, error) {
	var sy model.SchoolYear
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&sy).Error
	if err != nil {
		return nil, err
	}
	return &sy, nil
}

func (r *schoolYearRepo) GetByDate(ctx context.Context, date time.Time) (*model.SchoolYear, error) {
	var sy model.SchoolYear
	d := clock.FormatDate(date)
	err := r.db.WithContext(ctx).
		Where("term_start <= ? AND term_end >= ?", d, d).
		First(&sy).Error
	if err != nil {
		return nil, err
	}
	return &sy, nil
}

func (r *schoolYearRepo) List(ctx context.Context) ([]model.SchoolYear, error) {
	var years []model.SchoolYear
	err := r.db.WithContext(ctx).
		Order("term_start DESC").
		Find(&years).Error
	return years, err
}

func (r *schoolYearRepo) ExistsOverlapping(ctx context.Context, start, end time.Time, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.SchoolYear{}).
		Where("term_start <= ? AND term_end >= ?", clock.FormatDate(end), clock.FormatDate(start))
	if excludeID != "" {
		db = db.Where("school_year_id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *schoolYearRepo) Update(ctx context.Context, sy *model.SchoolYear) error {
	return translateError(r.db.WithContext(ctx).Save(sy).Error)
}

// ClearActive 将所有学年的 is_active 设为 false
func (r *schoolYearRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.SchoolYear{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}
