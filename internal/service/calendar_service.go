package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/repository"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
	apperrors "github.com/fmandres92/schoolmate-backend-sub002/pkg/errors"
)

// ── 校历模块业务错误 ──

var (
	ErrNonSchoolDayNotFound   = apperrors.New(apperrors.KindNotFound, 21001, "非上课日不存在")
	ErrNonSchoolDayDate       = apperrors.New(apperrors.KindValidation, 21002, "日期格式无效或结束日期早于开始日期")
	ErrNonSchoolDayWeekend    = apperrors.New(apperrors.KindValidation, 21003, "周末本身即非上课日，无需登记")
	ErrNonSchoolDayOutOfTerm  = apperrors.New(apperrors.KindValidation, 21004, "日期不在学年教学期内")
	ErrNonSchoolDayExists     = apperrors.New(apperrors.KindConflict, 21005, "该日期已登记为非上课日")
	ErrNonSchoolDayRangeLimit = apperrors.New(apperrors.KindValidation, 21006, "单次登记的日期区间过长")
)

// maxNonSchoolDayRange 单次区间登记的最大自然日数
const maxNonSchoolDayRange = 120

// CalendarService 校历（非上课日）业务接口
type CalendarService interface {
	CreateNonSchoolDays(ctx context.Context, schoolYearID string, req *dto.CreateNonSchoolDayRequest, callerID string) ([]dto.NonSchoolDayResponse, error)
	ListNonSchoolDays(ctx context.Context, schoolYearID string) ([]dto.NonSchoolDayResponse, error)
	DeleteNonSchoolDay(ctx context.Context, id string, callerID string) error
}

type calendarService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Create ──────────────────────

// CreateNonSchoolDays 登记单日或连续区间；区间内的周末自动跳过
// 任一日期已存在时整体失败，不做部分写入
func (s *calendarService) CreateNonSchoolDays(ctx context.Context, schoolYearID string, req *dto.CreateNonSchoolDayRequest, callerID string) ([]dto.NonSchoolDayResponse, error) {
	sy, err := loadWritableSchoolYear(ctx, s.repo, s.logger, schoolYearID, s.clock.Today())
	if err != nil {
		return nil, err
	}

	from, err := clock.ParseDate(req.Date)
	if err != nil {
		return nil, ErrNonSchoolDayDate
	}
	to := from
	if req.EndDate != "" {
		if to, err = clock.ParseDate(req.EndDate); err != nil || to.Before(from) {
			return nil, ErrNonSchoolDayDate
		}
	}
	if to.Sub(from).Hours()/24 >= maxNonSchoolDayRange {
		return nil, ErrNonSchoolDayRangeLimit
	}

	termStart, termEnd := clock.DateOf(sy.TermStart), clock.DateOf(sy.TermEnd)
	if from.Before(termStart) || to.After(termEnd) {
		return nil, ErrNonSchoolDayOutOfTerm.WithDetails(map[string]interface{}{
			"term_start": clock.FormatDate(termStart),
			"term_end":   clock.FormatDate(termEnd),
		})
	}

	var days []model.NonSchoolDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if clock.IsWeekend(d) {
			continue
		}
		day := model.NonSchoolDay{
			SchoolYearID: sy.SchoolYearID,
			Date:         d,
			Type:         req.Type,
			Description:  req.Description,
		}
		day.CreatedBy = &callerID
		day.UpdatedBy = &callerID
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, ErrNonSchoolDayWeekend
	}

	existing, err := s.repo.NonSchoolDay.ListBetween(ctx, sy.SchoolYearID, from, to)
	if err != nil {
		s.logger.Error("查询非上课日失败", zap.String("school_year_id", sy.SchoolYearID), zap.Error(err))
		return nil, err
	}
	if len(existing) > 0 {
		dates := make([]string, 0, len(existing))
		for _, e := range existing {
			dates = append(dates, clock.FormatDate(e.Date))
		}
		return nil, ErrNonSchoolDayExists.WithDetails(map[string]interface{}{"dates": dates})
	}

	if err := s.repo.NonSchoolDay.BatchCreate(ctx, days); err != nil {
		if errors.Is(err, apperrors.ErrUniqueViolation) {
			return nil, ErrNonSchoolDayExists
		}
		s.logger.Error("创建非上课日失败", zap.String("school_year_id", sy.SchoolYearID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.NonSchoolDayResponse, 0, len(days))
	for i := range days {
		result = append(result, *toNonSchoolDayResponse(&days[i]))
	}
	return result, nil
}

// ────────────────────── List ──────────────────────

func (s *calendarService) ListNonSchoolDays(ctx context.Context, schoolYearID string) ([]dto.NonSchoolDayResponse, error) {
	if _, err := loadSchoolYear(ctx, s.repo, s.logger, schoolYearID); err != nil {
		return nil, err
	}

	days, err := s.repo.NonSchoolDay.ListBySchoolYear(ctx, schoolYearID)
	if err != nil {
		s.logger.Error("列出非上课日失败", zap.String("school_year_id", schoolYearID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.NonSchoolDayResponse, 0, len(days))
	for i := range days {
		result = append(result, *toNonSchoolDayResponse(&days[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *calendarService) DeleteNonSchoolDay(ctx context.Context, id string, callerID string) error {
	day, err := s.repo.NonSchoolDay.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNonSchoolDayNotFound
		}
		s.logger.Error("查询非上课日失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if _, err := loadWritableSchoolYear(ctx, s.repo, s.logger, day.SchoolYearID, s.clock.Today()); err != nil {
		return err
	}

	if err := s.repo.NonSchoolDay.Delete(ctx, id); err != nil {
		s.logger.Error("删除非上课日失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("非上课日已删除",
		zap.String("id", id),
		zap.String("date", clock.FormatDate(day.Date)),
		zap.String("caller", callerID),
	)
	return nil
}

func toNonSchoolDayResponse(day *model.NonSchoolDay) *dto.NonSchoolDayResponse {
	return &dto.NonSchoolDayResponse{
		ID:           day.NonSchoolDayID,
		SchoolYearID: day.SchoolYearID,
		Date:         clock.FormatDate(day.Date),
		Type:         day.Type,
		Description:  day.Description,
	}
}
