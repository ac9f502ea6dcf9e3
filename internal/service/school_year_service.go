package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/repository"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
	apperrors "github.com/fmandres92/schoolmate-backend-sub002/pkg/errors"
)

// ── 学年模块业务错误 ──

var (
	ErrSchoolYearNotFound  = apperrors.New(apperrors.KindNotFound, 20001, "学年不存在")
	ErrSchoolYearClosed    = apperrors.New(apperrors.KindState, 20002, "学年已结束，不允许修改")
	ErrInvalidDateRange    = apperrors.New(apperrors.KindValidation, 20003, "学年日期无效：须满足 规划开始 < 教学开始 < 教学结束，且学年与教学开始年份一致")
	ErrSchoolYearOverlap   = apperrors.New(apperrors.KindConflict, 20004, "学年教学期与已有学年重叠")
	ErrNoSchoolYearForDate = apperrors.New(apperrors.KindNotFound, 20005, "当前日期不在任何学年的教学期内")
)

// ════════════════════════════════════════════════════════════
// 学年生命周期（纯函数）
// ════════════════════════════════════════════════════════════

// DeriveSchoolYearState 由日期推导学年状态，不读取也不写入任何存储字段
func DeriveSchoolYearState(sy *model.SchoolYear, today time.Time) model.SchoolYearState {
	d := clock.DateOf(today)
	switch {
	case d.Before(clock.DateOf(sy.TermStart)):
		return model.SchoolYearPlanning
	case d.After(clock.DateOf(sy.TermEnd)):
		return model.SchoolYearClosed
	default:
		return model.SchoolYearActive
	}
}

// AssertWritable 学年已结束时返回 ErrSchoolYearClosed
// 日历、课表、课程计划的所有写操作都必须先调用
func AssertWritable(sy *model.SchoolYear, today time.Time) error {
	if DeriveSchoolYearState(sy, today) == model.SchoolYearClosed {
		return ErrSchoolYearClosed.WithDetails(map[string]interface{}{
			"school_year_id": sy.SchoolYearID,
			"term_end":       clock.FormatDate(sy.TermEnd),
		})
	}
	return nil
}

// ValidateDateOrdering 要求 planningStart < termStart < termEnd
func ValidateDateOrdering(planningStart, termStart, termEnd time.Time) error {
	p, s, e := clock.DateOf(planningStart), clock.DateOf(termStart), clock.DateOf(termEnd)
	if !p.Before(s) || !s.Before(e) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidateYearMatchesTermStart 要求 year 等于教学开始日期的年份
func ValidateYearMatchesTermStart(year int, termStart time.Time) error {
	if termStart.Year() != year {
		return ErrInvalidDateRange.WithDetails(map[string]interface{}{
			"year":       year,
			"term_start": clock.FormatDate(termStart),
		})
	}
	return nil
}

// ValidateNoOverlap 候选学年的 [TermStart, TermEnd] 不得与 existing 中其他学年相交
func ValidateNoOverlap(candidate *model.SchoolYear, existing []model.SchoolYear, excludingID string) error {
	cStart, cEnd := clock.DateOf(candidate.TermStart), clock.DateOf(candidate.TermEnd)
	for i := range existing {
		other := &existing[i]
		if excludingID != "" && other.SchoolYearID == excludingID {
			continue
		}
		oStart, oEnd := clock.DateOf(other.TermStart), clock.DateOf(other.TermEnd)
		if !cStart.After(oEnd) && !oStart.After(cEnd) {
			return ErrSchoolYearOverlap.WithDetails(map[string]interface{}{
				"conflicting_school_year_id": other.SchoolYearID,
				"conflicting_year":           other.Year,
			})
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// 学年用例
// ════════════════════════════════════════════════════════════

// SchoolYearService 学年业务接口
type SchoolYearService interface {
	Create(ctx context.Context, req *dto.CreateSchoolYearRequest, callerID string) (*dto.SchoolYearResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SchoolYearResponse, error)
	GetCurrent(ctx context.Context) (*dto.SchoolYearResponse, error)
	List(ctx context.Context) ([]dto.SchoolYearResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSchoolYearRequest, callerID string) (*dto.SchoolYearResponse, error)
	Activate(ctx context.Context, id string, callerID string) error
}

type schoolYearService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewSchoolYearService 创建 SchoolYearService 实例
func NewSchoolYearService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) SchoolYearService {
	return &schoolYearService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *schoolYearService) Create(ctx context.Context, req *dto.CreateSchoolYearRequest, callerID string) (*dto.SchoolYearResponse, error) {
	sy := &model.SchoolYear{Year: req.Year}
	if err := applySchoolYearDates(sy, &req.PlanningStart, &req.TermStart, &req.TermEnd); err != nil {
		return nil, err
	}
	if err := s.validateSchoolYear(ctx, sy, ""); err != nil {
		return nil, err
	}

	sy.CreatedBy = &callerID
	sy.UpdatedBy = &callerID

	if err := s.repo.SchoolYear.Create(ctx, sy); err != nil {
		s.logger.Error("创建学年失败", zap.Int("year", sy.Year), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学年已创建", zap.String("id", sy.SchoolYearID), zap.Int("year", sy.Year))
	return s.toSchoolYearResponse(sy), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *schoolYearService) GetByID(ctx context.Context, id string) (*dto.SchoolYearResponse, error) {
	sy, err := loadSchoolYear(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	return s.toSchoolYearResponse(sy), nil
}

// ────────────────────── GetCurrent ──────────────────────

// GetCurrent 优先返回被标记为默认的学年；没有标记时按今天所在教学期查找
func (s *schoolYearService) GetCurrent(ctx context.Context) (*dto.SchoolYearResponse, error) {
	sy, err := s.repo.SchoolYear.GetCurrent(ctx)
	if err == nil {
		return s.toSchoolYearResponse(sy), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询当前学年失败", zap.Error(err))
		return nil, err
	}

	sy, err = resolveSchoolYearForDate(ctx, s.repo, s.logger, s.clock.Today())
	if err != nil {
		if errors.Is(err, ErrNoSchoolYearForDate) {
			return nil, ErrSchoolYearNotFound
		}
		return nil, err
	}
	return s.toSchoolYearResponse(sy), nil
}

// ────────────────────── List ──────────────────────

func (s *schoolYearService) List(ctx context.Context) ([]dto.SchoolYearResponse, error) {
	years, err := s.repo.SchoolYear.List(ctx)
	if err != nil {
		s.logger.Error("列出学年失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SchoolYearResponse, 0, len(years))
	for i := range years {
		result = append(result, *s.toSchoolYearResponse(&years[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *schoolYearService) Update(ctx context.Context, id string, req *dto.UpdateSchoolYearRequest, callerID string) (*dto.SchoolYearResponse, error) {
	sy, err := loadSchoolYear(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	if err := AssertWritable(sy, s.clock.Today()); err != nil {
		return nil, err
	}

	if req.Year != nil {
		sy.Year = *req.Year
	}
	if err := applySchoolYearDates(sy, req.PlanningStart, req.TermStart, req.TermEnd); err != nil {
		return nil, err
	}
	if err := s.validateSchoolYear(ctx, sy, sy.SchoolYearID); err != nil {
		return nil, err
	}

	sy.UpdatedBy = &callerID

	if err := s.repo.SchoolYear.Update(ctx, sy); err != nil {
		s.logger.Error("更新学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toSchoolYearResponse(sy), nil
}

// ────────────────────── Activate ──────────────────────

// Activate 将学年设为界面默认学年，与推导出的生命周期状态无关
func (s *schoolYearService) Activate(ctx context.Context, id string, callerID string) error {
	sy, err := loadSchoolYear(ctx, s.repo, s.logger, id)
	if err != nil {
		return err
	}
	if err := AssertWritable(sy, s.clock.Today()); err != nil {
		return err
	}

	// 使用事务保证 ClearActive + Update 的原子性
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.SchoolYear.ClearActive(ctx); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("清除默认学年失败", zap.Error(err))
		return err
	}

	sy.IsActive = true
	sy.UpdatedBy = &callerID

	if err := txRepo.SchoolYear.Update(ctx, sy); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("设置默认学年失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	return nil
}

// ── 内部辅助方法 ──

// validateSchoolYear 日期顺序、年份一致、与其他学年不重叠
func (s *schoolYearService) validateSchoolYear(ctx context.Context, sy *model.SchoolYear, excludeID string) error {
	if err := ValidateDateOrdering(sy.PlanningStart, sy.TermStart, sy.TermEnd); err != nil {
		return err
	}
	if err := ValidateYearMatchesTermStart(sy.Year, sy.TermStart); err != nil {
		return err
	}

	overlapping, err := s.repo.SchoolYear.ExistsOverlapping(ctx, sy.TermStart, sy.TermEnd, excludeID)
	if err != nil {
		s.logger.Error("检查学年重叠失败", zap.Error(err))
		return err
	}
	if !overlapping {
		return nil
	}

	// 有重叠时再取全量列表，定位具体冲突的学年
	existing, err := s.repo.SchoolYear.List(ctx)
	if err != nil {
		s.logger.Error("列出学年失败", zap.Error(err))
		return err
	}
	if err := ValidateNoOverlap(sy, existing, excludeID); err != nil {
		return err
	}
	return ErrSchoolYearOverlap
}

func (s *schoolYearService) toSchoolYearResponse(sy *model.SchoolYear) *dto.SchoolYearResponse {
	return &dto.SchoolYearResponse{
		ID:            sy.SchoolYearID,
		Year:          sy.Year,
		PlanningStart: clock.FormatDate(sy.PlanningStart),
		TermStart:     clock.FormatDate(sy.TermStart),
		TermEnd:       clock.FormatDate(sy.TermEnd),
		State:         string(DeriveSchoolYearState(sy, s.clock.Today())),
		IsActive:      sy.IsActive,
		CreatedAt:     sy.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     sy.UpdatedAt.Format(time.RFC3339),
	}
}

// applySchoolYearDates 解析非 nil 的日期字段写入 sy
func applySchoolYearDates(sy *model.SchoolYear, planningStart, termStart, termEnd *string) error {
	fields := []struct {
		raw *string
		dst *time.Time
	}{
		{planningStart, &sy.PlanningStart},
		{termStart, &sy.TermStart},
		{termEnd, &sy.TermEnd},
	}
	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		d, err := clock.ParseDate(*f.raw)
		if err != nil {
			return ErrInvalidDateRange
		}
		*f.dst = d
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// 跨模块共用
// ════════════════════════════════════════════════════════════

func loadSchoolYear(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.SchoolYear, error) {
	sy, err := repo.SchoolYear.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolYearNotFound
		}
		logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sy, nil
}

// loadWritableSchoolYear 查询学年并校验其未结束
func loadWritableSchoolYear(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string, today time.Time) (*model.SchoolYear, error) {
	sy, err := loadSchoolYear(ctx, repo, logger, id)
	if err != nil {
		return nil, err
	}
	if err := AssertWritable(sy, today); err != nil {
		return nil, err
	}
	return sy, nil
}

func resolveSchoolYearForDate(ctx context.Context, repo *repository.Repository, logger *zap.Logger, date time.Time) (*model.SchoolYear, error) {
	sy, err := repo.SchoolYear.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSchoolYearForDate.WithDetails(map[string]interface{}{
				"date": clock.FormatDate(date),
			})
		}
		logger.Error("按日期查询学年失败", zap.String("date", clock.FormatDate(date)), zap.Error(err))
		return nil, err
	}
	return sy, nil
}
