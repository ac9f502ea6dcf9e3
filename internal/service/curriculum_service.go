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

// ── 课程计划模块业务错误 ──

var (
	ErrCurriculumNotFound      = apperrors.New(apperrors.KindNotFound, 22001, "课程计划不存在")
	ErrGradeNotFound           = apperrors.New(apperrors.KindNotFound, 22002, "年级不存在")
	ErrCurriculumExists        = apperrors.New(apperrors.KindConflict, 22003, "该年级在本学年已有此科目的课程计划")
	ErrCurriculumBelowAssigned = apperrors.New(apperrors.KindConflict, 22004, "周课时不能低于已排课时")
)

// CurriculumService 课程计划业务接口
type CurriculumService interface {
	Create(ctx context.Context, req *dto.CreateCurriculumRequest, callerID string) (*dto.CurriculumResponse, error)
	UpdateHours(ctx context.Context, id string, req *dto.UpdateCurriculumRequest, callerID string) (*dto.CurriculumResponse, error)
	Deactivate(ctx context.Context, id string, callerID string) error
	List(ctx context.Context, req *dto.ListCurriculumRequest) ([]dto.CurriculumResponse, error)
}

type curriculumService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewCurriculumService 创建 CurriculumService 实例
func NewCurriculumService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) CurriculumService {
	return &curriculumService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *curriculumService) Create(ctx context.Context, req *dto.CreateCurriculumRequest, callerID string) (*dto.CurriculumResponse, error) {
	if _, err := loadWritableSchoolYear(ctx, s.repo, s.logger, req.SchoolYearID, s.clock.Today()); err != nil {
		return nil, err
	}

	grade, err := s.repo.Grade.GetByID(ctx, req.GradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.String("grade_id", req.GradeID), zap.Error(err))
		return nil, err
	}
	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("subject_id", req.SubjectID), zap.Error(err))
		return nil, err
	}

	_, err = s.repo.Curriculum.FindActive(ctx, req.SubjectID, req.GradeID, req.SchoolYearID)
	if err == nil {
		return nil, ErrCurriculumExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询课程计划失败", zap.Error(err))
		return nil, err
	}

	alloc := &model.CurriculumAllocation{
		SubjectID:    req.SubjectID,
		GradeID:      req.GradeID,
		SchoolYearID: req.SchoolYearID,
		WeeklyHours:  req.WeeklyHours,
		Active:       true,
	}
	alloc.CreatedBy = &callerID
	alloc.UpdatedBy = &callerID

	if err := s.repo.Curriculum.Create(ctx, alloc); err != nil {
		if errors.Is(err, apperrors.ErrUniqueViolation) {
			return nil, ErrCurriculumExists
		}
		s.logger.Error("创建课程计划失败", zap.Error(err))
		return nil, err
	}

	alloc.Subject = subject
	alloc.Grade = grade
	return toCurriculumResponse(alloc), nil
}

// ────────────────────── UpdateHours ──────────────────────

// UpdateHours 调整周课时，新值不得低于该年级任一班级已排的课时数
func (s *curriculumService) UpdateHours(ctx context.Context, id string, req *dto.UpdateCurriculumRequest, callerID string) (*dto.CurriculumResponse, error) {
	alloc, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadWritableSchoolYear(ctx, s.repo, s.logger, alloc.SchoolYearID, s.clock.Today()); err != nil {
		return nil, err
	}

	assigned, err := s.repo.ScheduleSlot.MaxAssignedWeeklyHours(ctx, alloc.SubjectID, alloc.GradeID, alloc.SchoolYearID)
	if err != nil {
		s.logger.Error("统计已排课时失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if req.WeeklyHours < assigned {
		return nil, ErrCurriculumBelowAssigned.WithDetails(map[string]interface{}{
			"assigned":  assigned,
			"requested": req.WeeklyHours,
		})
	}

	alloc.WeeklyHours = req.WeeklyHours
	alloc.UpdatedBy = &callerID

	if err := s.repo.Curriculum.Update(ctx, alloc); err != nil {
		s.logger.Error("更新课程计划失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCurriculumResponse(alloc), nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *curriculumService) Deactivate(ctx context.Context, id string, callerID string) error {
	alloc, err := s.loadActive(ctx, id)
	if err != nil {
		return err
	}
	if _, err := loadWritableSchoolYear(ctx, s.repo, s.logger, alloc.SchoolYearID, s.clock.Today()); err != nil {
		return err
	}

	alloc.Active = false
	alloc.UpdatedBy = &callerID

	if err := s.repo.Curriculum.Update(ctx, alloc); err != nil {
		s.logger.Error("停用课程计划失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *curriculumService) List(ctx context.Context, req *dto.ListCurriculumRequest) ([]dto.CurriculumResponse, error) {
	list, err := s.repo.Curriculum.List(ctx, req.SchoolYearID, req.GradeID)
	if err != nil {
		s.logger.Error("列出课程计划失败", zap.String("school_year_id", req.SchoolYearID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CurriculumResponse, 0, len(list))
	for i := range list {
		result = append(result, *toCurriculumResponse(&list[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *curriculumService) loadActive(ctx context.Context, id string) (*model.CurriculumAllocation, error) {
	alloc, err := s.repo.Curriculum.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumNotFound
		}
		s.logger.Error("查询课程计划失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !alloc.Active {
		return nil, ErrCurriculumNotFound
	}
	return alloc, nil
}

func toCurriculumResponse(a *model.CurriculumAllocation) *dto.CurriculumResponse {
	resp := &dto.CurriculumResponse{
		ID:           a.AllocationID,
		SubjectID:    a.SubjectID,
		GradeID:      a.GradeID,
		SchoolYearID: a.SchoolYearID,
		WeeklyHours:  a.WeeklyHours,
		Active:       a.Active,
	}
	if a.Subject != nil {
		resp.SubjectName = a.Subject.Name
	}
	if a.Grade != nil {
		resp.GradeName = a.Grade.Name
	}
	return resp
}
