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

// ── 考勤模块业务错误 ──

var (
	ErrNotAClassSlot          = apperrors.New(apperrors.KindValidation, 24001, "仅 CLASS 时段可以记录考勤")
	ErrAttendanceAccessDenied = apperrors.New(apperrors.KindAccess, 24002, "无权记录该时段的考勤")
	ErrAttendanceDate         = apperrors.New(apperrors.KindValidation, 24003, "日期格式无效，应为 YYYY-MM-DD")
	ErrNotToday               = apperrors.New(apperrors.KindState, 24004, "只能记录当天的考勤")
	ErrDateWeekdayMismatch    = apperrors.New(apperrors.KindState, 24005, "日期与时段的星期不一致")
	ErrOutsideCaptureWindow   = apperrors.New(apperrors.KindState, 24006, "当前不在考勤录入时间窗口内")
	ErrDuplicateStudentRecord = apperrors.New(apperrors.KindConflict, 24007, "同一学生提交了多条考勤")
	ErrIneligibleStudent      = apperrors.New(apperrors.KindConflict, 24008, "存在不属于该班级的学生")
	ErrSessionNotFound        = apperrors.New(apperrors.KindNotFound, 24009, "该时段当天尚无考勤记录")
)

// CaptureWindow 考勤录入窗口 [start-margin, end+margin]，两端闭区间
func CaptureWindow(start, end, margin time.Duration) (from, to time.Duration) {
	return start - margin, end + margin
}

// InCaptureWindow now 的当日时刻是否在录入窗口内
func InCaptureWindow(now time.Time, start, end, margin time.Duration) bool {
	from, to := CaptureWindow(start, end, margin)
	t := clock.TimeOfDay(now)
	return t >= from && t <= to
}

// AttendanceService 课堂考勤业务接口
type AttendanceService interface {
	SaveAttendance(ctx context.Context, req *dto.SaveAttendanceRequest, teacherID string) (*dto.ClassSessionResponse, error)
	// GetSession 结果只对时段所属教师或管理员可见
	GetSession(ctx context.Context, req *dto.GetAttendanceRequest, callerID string, isAdmin bool) (*dto.ClassSessionResponse, error)
}

type attendanceService struct {
	margin time.Duration
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.AttendanceConfig, repo *repository.Repository, clk clock.Clock, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		margin: time.Duration(cfg.CaptureMarginMinutes) * time.Minute,
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// ────────────────────── SaveAttendance ──────────────────────

// SaveAttendance 创建或更新 (时段, 日期) 的课堂考勤并整体替换学生记录
// 第 1-8 步只做校验；只有会话插入的并发冲突会重读一次
func (s *attendanceService) SaveAttendance(ctx context.Context, req *dto.SaveAttendanceRequest, teacherID string) (*dto.ClassSessionResponse, error) {
	now := s.clock.Now()
	today := clock.DateOf(now)

	// 1. 时段
	slot, err := s.repo.ScheduleSlot.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("查询课表时段失败", zap.String("slot_id", req.SlotID), zap.Error(err))
		return nil, err
	}
	if !slot.Active {
		return nil, ErrSlotNotFound
	}

	// 2. 仅 CLASS
	if !slot.IsClass() {
		return nil, ErrNotAClassSlot
	}

	// 3. 归属
	if slot.TeacherID == nil || *slot.TeacherID != teacherID {
		return nil, ErrAttendanceAccessDenied
	}

	// 4. 只能是今天
	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return nil, ErrAttendanceDate
	}
	if !date.Equal(today) {
		return nil, ErrNotToday.WithDetails(map[string]interface{}{
			"date":  clock.FormatDate(date),
			"today": clock.FormatDate(today),
		})
	}

	// 5. 星期一致
	if clock.ISOWeekday(date) != slot.Weekday {
		return nil, ErrDateWeekdayMismatch
	}

	// 6. 录入窗口
	start, end, err := slotTimes(slot)
	if err != nil {
		s.logger.Error("时段时间数据无效", zap.String("slot_id", slot.SlotID), zap.Error(err))
		return nil, err
	}
	if !InCaptureWindow(now, start, end, s.margin) {
		from, to := CaptureWindow(start, end, s.margin)
		return nil, ErrOutsideCaptureWindow.WithDetails(map[string]interface{}{
			"window_start": clock.FormatTimeOfDay(from),
			"window_end":   clock.FormatTimeOfDay(to),
			"now":          clock.FormatTimeOfDay(clock.TimeOfDay(now)),
		})
	}

	// 7. 可考勤学生
	eligible, err := s.eligibleStudents(ctx, slot.CourseID, today)
	if err != nil {
		return nil, err
	}

	// 8. 学生列表
	if err := validateStudentList(req.Records, eligible); err != nil {
		return nil, err
	}

	records := make([]model.AttendanceRecord, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, model.AttendanceRecord{
			StudentID:   r.StudentID,
			Status:      r.Status,
			Observation: r.Observation,
		})
	}

	// 9-10. 会话 create-or-update 与记录整体替换在同一事务内，任一步失败均不留下会话
	var session *model.ClassSession
	err = s.repo.ClassSession.Transaction(ctx, func(sessions repository.ClassSessionRepository) error {
		var txErr error
		session, txErr = s.upsertSession(ctx, sessions, slot.SlotID, date, now)
		if txErr != nil {
			return txErr
		}
		if txErr = sessions.ReplaceRecords(ctx, session.SessionID, records, now); txErr != nil {
			s.logger.Error("保存考勤记录失败", zap.String("session_id", session.SessionID), zap.Error(txErr))
			return txErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	session.UpdatedAt = now

	s.logger.Info("课堂考勤已保存",
		zap.String("session_id", session.SessionID),
		zap.String("slot_id", slot.SlotID),
		zap.String("date", clock.FormatDate(date)),
		zap.Int("records", len(records)),
	)

	// 11. 返回
	for i := range records {
		records[i].Student = eligible[records[i].StudentID]
	}
	return toClassSessionResponse(session, records), nil
}

// eligibleStudents 班级内 ACTIVE 且入学日期不晚于 today 的学生
func (s *attendanceService) eligibleStudents(ctx context.Context, courseID string, today time.Time) (map[string]*model.Student, error) {
	enrollments, err := s.repo.Enrollment.ListActiveByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询班级学籍失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	eligible := make(map[string]*model.Student, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		if e.Status != model.EnrollmentActive || clock.DateOf(e.EnrolledOn).After(today) {
			continue
		}
		student := e.Student
		if student == nil {
			student = &model.Student{StudentID: e.StudentID}
		}
		eligible[e.StudentID] = student
	}
	return eligible, nil
}

func validateStudentList(records []dto.AttendanceRecordRequest, eligible map[string]*model.Student) error {
	seen := make(map[string]bool, len(records))
	var duplicates []string
	for _, r := range records {
		if seen[r.StudentID] {
			duplicates = append(duplicates, r.StudentID)
		}
		seen[r.StudentID] = true
	}
	if len(duplicates) > 0 {
		return ErrDuplicateStudentRecord.WithDetails(map[string]interface{}{"student_ids": duplicates})
	}

	var invalid []string
	for _, r := range records {
		if _, ok := eligible[r.StudentID]; !ok {
			invalid = append(invalid, r.StudentID)
		}
	}
	if len(invalid) > 0 {
		return ErrIneligibleStudent.WithDetails(map[string]interface{}{"invalid_student_ids": invalid})
	}
	return nil
}

// upsertSession 不存在则插入；插入因并发撞上唯一约束时重读一次，按更新继续
func (s *attendanceService) upsertSession(ctx context.Context, sessions repository.ClassSessionRepository, slotID string, date, now time.Time) (*model.ClassSession, error) {
	session, err := sessions.GetBySlotAndDate(ctx, slotID, date)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询课堂会话失败", zap.String("slot_id", slotID), zap.Error(err))
		return nil, err
	}

	session = &model.ClassSession{SlotID: slotID, Date: date, CreatedAt: now, UpdatedAt: now}
	err = sessions.Create(ctx, session)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, apperrors.ErrUniqueViolation) {
		s.logger.Error("创建课堂会话失败", zap.String("slot_id", slotID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课堂会话并发创建，改为更新", zap.String("slot_id", slotID), zap.String("date", clock.FormatDate(date)))
	session, err = sessions.GetBySlotAndDate(ctx, slotID, date)
	if err != nil {
		s.logger.Error("并发创建后重读课堂会话失败", zap.String("slot_id", slotID), zap.Error(err))
		return nil, fmt.Errorf("课堂会话写入冲突后重读失败: %w", err)
	}
	return session, nil
}

// ────────────────────── GetSession ──────────────────────

func (s *attendanceService) GetSession(ctx context.Context, req *dto.GetAttendanceRequest, callerID string, isAdmin bool) (*dto.ClassSessionResponse, error) {
	slot, err := s.repo.ScheduleSlot.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("查询课表时段失败", zap.String("slot_id", req.SlotID), zap.Error(err))
		return nil, err
	}
	if !isAdmin && (slot.TeacherID == nil || *slot.TeacherID != callerID) {
		return nil, ErrAttendanceAccessDenied
	}

	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return nil, ErrAttendanceDate
	}

	session, err := s.repo.ClassSession.GetBySlotAndDate(ctx, slot.SlotID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询课堂会话失败", zap.String("slot_id", slot.SlotID), zap.Error(err))
		return nil, err
	}

	records, err := s.repo.ClassSession.ListRecords(ctx, session.SessionID)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.String("session_id", session.SessionID), zap.Error(err))
		return nil, err
	}
	return toClassSessionResponse(session, records), nil
}

func toClassSessionResponse(session *model.ClassSession, records []model.AttendanceRecord) *dto.ClassSessionResponse {
	resp := &dto.ClassSessionResponse{
		SessionID: session.SessionID,
		SlotID:    session.SlotID,
		Date:      clock.FormatDate(session.Date),
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
		UpdatedAt: session.UpdatedAt.Format(time.RFC3339),
		Records:   make([]dto.AttendanceRecordResponse, 0, len(records)),
	}
	for _, r := range records {
		item := dto.AttendanceRecordResponse{
			StudentID:   r.StudentID,
			Status:      r.Status,
			Observation: r.Observation,
		}
		if r.Student != nil {
			item.StudentName = r.Student.FullName()
		}
		resp.Records = append(resp.Records, item)
	}
	return resp
}
