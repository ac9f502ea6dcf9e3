package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// NonSchoolDayRepository 非上课日数据访问接口
type NonSchoolDayRepository interface {
	BatchCreate(ctx context.Context, days []model.NonSchoolDay) error
	GetByID(ctx context.Context, id string) (*model.NonSchoolDay, error)
	GetByDate(ctx context.Context, schoolYearID string, date time.Time) (*model.NonSchoolDay, error)
	ListBySchoolYear(ctx context.Context, schoolYearID string) ([]model.NonSchoolDay, error)
	ListBetween(ctx context.Context, schoolYearID string, from, to time.Time) ([]model.NonSchoolDay, error)
	Delete(ctx context.Context, id string) error
}

type nonSchoolDayRepo struct {
	db *gorm.DB
}

// NewNonSchoolDayRepo 创建 NonSchoolDayRepository 实例
func NewNonSchoolDayRepo(db *gorm.DB) NonSchoolDayRepository {
	return &nonSchoolDayRepo{db: db}
}

func (r *nonSchoolDayRepo) BatchCreate(ctx context.Context, days []model.NonSchoolDay) error {
	if len(days) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(&days).Error)
}

func (r *nonSchoolDayRepo) GetByID(ctx context.Context, id string) (*model.NonSchoolDay, error) {
	var day model.NonSchoolDay
	err := r.db.WithContext(ctx).
		Where("non_school_day_id = ?", id).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *nonSchoolDayRepo) GetByDate(ctx context.Context, schoolYearID string, date time.Time) (*model.NonSchoolDay, error) {
	var day model.NonSchoolDay
	err := r.db.WithContext(ctx).
		Where("school_year_id = ? AND date = ?", schoolYearID, clock.FormatDate(date)).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *nonSchoolDayRepo) ListBySchoolYear(ctx context.Context, schoolYearID string) ([]model.NonSchoolDay, error) {
	var days []model.NonSchoolDay
	err := r.db.WithContext(ctx).
		Where("school_year_id = ?", schoolYearID).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

func (r *nonSchoolDayRepo) ListBetween(ctx context.Context, schoolYearID string, from, to time.Time) ([]model.NonSchoolDay, error) {
	var days []model.NonSchoolDay
	err := r.db.WithContext(ctx).
		Where("school_year_id = ? AND date BETWEEN ? AND ?", schoolYearID, clock.FormatDate(from), clock.FormatDate(to)).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

func (r *nonSchoolDayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("non_school_day_id = ?", id).
		Delete(&model.NonSchoolDay{}).Error
}
