package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/config"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/repository"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
	apperrors "github.com/fmandres92/schoolmate-backend-sub002/pkg/errors"
)

// ── 周课表模块业务错误 ──

var (
	ErrInvalidTimeFormat       = apperrors.New(apperrors.KindValidation, 23001, "时间格式无效，应为 HH:MM")
	ErrInvalidScheduleWindow   = apperrors.New(apperrors.KindValidation, 23002, "时段长度或范围不符合课表规则")
	ErrInvalidWeekday          = apperrors.New(apperrors.KindValidation, 23003, "星期取值应为 1-7")
	ErrCourseNotFound          = apperrors.New(apperrors.KindNotFound, 23004, "班级不存在")
	ErrDuplicateSlot           = apperrors.New(apperrors.KindConflict, 23005, "该班级在此时间已有课表时段")
	ErrMissingTeacherOrSubject = apperrors.New(apperrors.KindValidation, 23006, "CLASS 时段必须同时指定教师和科目")
	ErrTeacherNotFound         = apperrors.New(apperrors.KindNotFound, 23007, "教师不存在")
	ErrSubjectNotFound         = apperrors.New(apperrors.KindNotFound, 23008, "科目不存在")
	ErrTeacherNotQualified     = apperrors.New(apperrors.KindConflict, 23009, "该教师不能教授此科目")
	ErrSubjectNotInCurriculum  = apperrors.New(apperrors.KindConflict, 23010, "该科目不在此年级本学年的课程计划中")
	ErrTeacherScheduleConflict = apperrors.New(apperrors.KindConflict, 23011, "教师在此时间已有其他班级的课")
	ErrCurriculumHoursExceeded = apperrors.New(apperrors.KindConflict, 23012, "该科目本周课时已排满")
	ErrSlotNotFound            = apperrors.New(apperrors.KindNotFound, 23013, "课表时段不存在")
)

// ScheduleWindow 课表时间规则：每日运行窗口与单个课时长度
type ScheduleWindow struct {
	DayStart time.Duration
	DayEnd   time.Duration
	Block    time.Duration
}

// NewScheduleWindow 从配置解析课表窗口
func NewScheduleWindow(cfg *config.ScheduleConfig) (ScheduleWindow, error) {
	start, err := clock.ParseTimeOfDay(cfg.DayStart)
	if err != nil {
		return ScheduleWindow{}, fmt.Errorf("schedule.day_start: %w", err)
	}
	end, err := clock.ParseTimeOfDay(cfg.DayEnd)
	if err != nil {
		return ScheduleWindow{}, fmt.Errorf("schedule.day_end: %w", err)
	}
	return ScheduleWindow{
		DayStart: start,
		DayEnd:   end,
		Block:    time.Duration(cfg.BlockMinutes) * time.Minute,
	}, nil
}

// Fits 时长等于一个课时且完全落在运行窗口内
func (w ScheduleWindow) Fits(start, end time.Duration) bool {
	return end-start == w.Block && start >= w.DayStart && end <= w.DayEnd
}

// ScheduleSlotService 周课表业务接口
type ScheduleSlotService interface {
	CreateSlot(ctx context.Context, req *dto.CreateSlotRequest, callerID string) (*dto.SlotResponse, error)
	DeactivateSlot(ctx context.Context, id string, callerID string) error
	ListByCourse(ctx context.Context, courseID string) ([]dto.SlotResponse, error)
}

type scheduleSlotService struct {
	window ScheduleWindow
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewScheduleSlotService 创建 ScheduleSlotService 实例
func NewScheduleSlotService(window ScheduleWindow, repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ScheduleSlotService {
	return &scheduleSlotService{window: window, repo: repo, clock: clk, logger: logger}
}

// ────────────────────── CreateSlot ──────────────────────

// CreateSlot 按固定顺序校验后写入时段；任一检查失败都不会产生写入
// 冲突检查是快速路径，并发下由数据库部分唯一索引兜底
func (s *scheduleSlotService) CreateSlot(ctx context.Context, req *dto.CreateSlotRequest, callerID string) (*dto.SlotResponse, error) {
	// 1. 时间格式
	start, err := clock.ParseMinuteOfDay(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat.WithDetails(map[string]interface{}{"start_time": req.StartTime})
	}
	end, err := clock.ParseMinuteOfDay(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat.WithDetails(map[string]interface{}{"end_time": req.EndTime})
	}
	if req.Weekday < 1 || req.Weekday > 7 {
		return nil, ErrInvalidWeekday
	}

	// 2. 时长与运行窗口
	if !s.window.Fits(start, end) {
		return nil, ErrInvalidScheduleWindow.WithDetails(map[string]interface{}{
			"block_minutes": int(s.window.Block / time.Minute),
			"day_start":     clock.FormatTimeOfDay(s.window.DayStart),
			"day_end":       clock.FormatTimeOfDay(s.window.DayEnd),
		})
	}
	startStr, endStr := clock.FormatTimeOfDay(start), clock.FormatTimeOfDay(end)

	// 3. 班级，以及所属学年未结束
	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询班级失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}
	if _, err := loadWritableSchoolYear(ctx, s.repo, s.logger, course.SchoolYearID, s.clock.Today()); err != nil {
		return nil, err
	}

	// 4. 同班同时间
	exists, err := s.repo.ScheduleSlot.ExistsActiveSlot(ctx, course.CourseID, req.Weekday, startStr)
	if err != nil {
		s.logger.Error("检查班级时段冲突失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, errDuplicateSlot(course.CourseID, req.Weekday, startStr)
	}

	slot := &model.ScheduleSlot{
		SchoolYearID: course.SchoolYearID,
		CourseID:     course.CourseID,
		Type:         req.Type,
		Weekday:      req.Weekday,
		StartTime:    startStr,
		EndTime:      endStr,
		Active:       true,
	}
	slot.CreatedBy = &callerID
	slot.UpdatedBy = &callerID

	// 5. 午休时段不关联教师与科目
	if req.Type == model.SlotTypeLunch {
		if err := s.persist(ctx, slot); err != nil {
			return nil, err
		}
		return toSlotResponse(slot), nil
	}

	// 6. CLASS 必须同时指定教师和科目
	if req.TeacherID == "" || req.SubjectID == "" {
		return nil, ErrMissingTeacherOrSubject
	}

	// 7. 教师与科目
	teacher, err := s.repo.Teacher.GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("teacher_id", req.TeacherID), zap.Error(err))
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

	// 8. 教师可授科目
	if !teacher.Teaches(subject.SubjectID) {
		return nil, ErrTeacherNotQualified.WithDetails(map[string]interface{}{
			"teacher_id": teacher.TeacherID,
			"subject_id": subject.SubjectID,
		})
	}

	// 9. 课程计划配额
	alloc, err := s.repo.Curriculum.FindActive(ctx, subject.SubjectID, course.GradeID, course.SchoolYearID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotInCurriculum.WithDetails(map[string]interface{}{
				"subject_id": subject.SubjectID,
				"grade_id":   course.GradeID,
			})
		}
		s.logger.Error("查询课程计划失败", zap.Error(err))
		return nil, err
	}

	// 10. 教师同一时间仅能在一个班级上课
	conflict, err := s.repo.ScheduleSlot.ExistsTeacherConflict(ctx, teacher.TeacherID, req.Weekday, startStr, course.SchoolYearID)
	if err != nil {
		s.logger.Error("检查教师时段冲突失败", zap.Error(err))
		return nil, err
	}
	if conflict {
		return nil, errTeacherConflict(teacher, req.Weekday, startStr)
	}

	// 11. 周课时上限
	assigned, err := s.repo.ScheduleSlot.CountAssignedWeeklyHours(ctx, course.CourseID, subject.SubjectID)
	if err != nil {
		s.logger.Error("统计已排课时失败", zap.Error(err))
		return nil, err
	}
	if assigned >= alloc.WeeklyHours {
		return nil, ErrCurriculumHoursExceeded.WithDetails(map[string]interface{}{
			"assigned": assigned,
			"quota":    alloc.WeeklyHours,
		})
	}

	// 12. 写入
	slot.TeacherID = &teacher.TeacherID
	slot.SubjectID = &subject.SubjectID
	if err := s.persist(ctx, slot); err != nil {
		if errors.Is(err, ErrTeacherScheduleConflict) {
			return nil, errTeacherConflict(teacher, req.Weekday, startStr)
		}
		return nil, err
	}

	slot.Teacher = teacher
	slot.Subject = subject
	s.logger.Info("课表时段已创建",
		zap.String("slot_id", slot.SlotID),
		zap.String("course_id", course.CourseID),
		zap.Int("weekday", slot.Weekday),
		zap.String("start_time", slot.StartTime),
	)
	return toSlotResponse(slot), nil
}

// persist 写入时段并把唯一约束冲突翻译为业务错误
func (s *scheduleSlotService) persist(ctx context.Context, slot *model.ScheduleSlot) error {
	err := s.repo.ScheduleSlot.Create(ctx, slot)
	if err == nil {
		return nil
	}
	switch repository.ViolatedConstraint(err) {
	case repository.ConstraintSlotCourseTime:
		return errDuplicateSlot(slot.CourseID, slot.Weekday, slot.StartTime)
	case repository.ConstraintSlotTeacherTime:
		return ErrTeacherScheduleConflict
	}
	if errors.Is(err, apperrors.ErrUniqueViolation) {
		return errDuplicateSlot(slot.CourseID, slot.Weekday, slot.StartTime)
	}
	s.logger.Error("创建课表时段失败", zap.Error(err))
	return err
}

// ────────────────────── DeactivateSlot ──────────────────────

func (s *scheduleSlotService) DeactivateSlot(ctx context.Context, id string, callerID string) error {
	slot, err := s.repo.ScheduleSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("查询课表时段失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if !slot.Active {
		return ErrSlotNotFound
	}
	if _, err := loadWritableSchoolYear(ctx, s.repo, s.logger, slot.SchoolYearID, s.clock.Today()); err != nil {
		return err
	}

	if err := s.repo.ScheduleSlot.Deactivate(ctx, id, &callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("停用课表时段失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ListByCourse ──────────────────────

func (s *scheduleSlotService) ListByCourse(ctx context.Context, courseID string) ([]dto.SlotResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询班级失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	slots, err := s.repo.ScheduleSlot.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出班级课表失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toSlotResponse(&slots[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func errDuplicateSlot(courseID string, weekday int, startTime string) error {
	return ErrDuplicateSlot.WithDetails(map[string]interface{}{
		"course_id":  courseID,
		"weekday":    weekday,
		"start_time": startTime,
	})
}

func errTeacherConflict(teacher *model.Teacher, weekday int, startTime string) error {
	return ErrTeacherScheduleConflict.WithDetails(map[string]interface{}{
		"teacher_id":   teacher.TeacherID,
		"teacher_name": teacher.FullName(),
		"weekday":      weekday,
		"start_time":   startTime,
	})
}

// slotTimes 解析时段起止；数据库 TIME 列读回为 HH:MM:SS
func slotTimes(slot *model.ScheduleSlot) (start, end time.Duration, err error) {
	if start, err = clock.ParseTimeOfDay(slot.StartTime); err != nil {
		return 0, 0, err
	}
	if end, err = clock.ParseTimeOfDay(slot.EndTime); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func normalizeTime(s string) string {
	if n, err := clock.NormalizeTimeOfDay(s); err == nil {
		return n
	}
	return s
}

func toSlotResponse(slot *model.ScheduleSlot) *dto.SlotResponse {
	resp := &dto.SlotResponse{
		ID:           slot.SlotID,
		SchoolYearID: slot.SchoolYearID,
		CourseID:     slot.CourseID,
		TeacherID:    slot.TeacherID,
		SubjectID:    slot.SubjectID,
		Type:         slot.Type,
		Weekday:      slot.Weekday,
		StartTime:    normalizeTime(slot.StartTime),
		EndTime:      normalizeTime(slot.EndTime),
		Active:       slot.Active,
	}
	if slot.Teacher != nil {
		resp.TeacherName = slot.Teacher.FullName()
	}
	if slot.Subject != nil {
		resp.SubjectName = slot.Subject.Name
	}
	return resp
}
