package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/config"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/repository"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// ComplianceService 今日考勤合规看板业务接口
type ComplianceService interface {
	// TodayCompliance schoolYearID 为空时取今天所在教学期的学年
	TodayCompliance(ctx context.Context, schoolYearID string) (*dto.TodayComplianceResponse, error)
	MyToday(ctx context.Context, teacherID string) (*dto.MyTodayResponse, error)
}

type complianceService struct {
	pendingLimit int
	margin       time.Duration
	repo         *repository.Repository
	clock        clock.Clock
	logger       *zap.Logger
}

// NewComplianceService 创建 ComplianceService 实例
func NewComplianceService(cfg *config.ComplianceConfig, attCfg *config.AttendanceConfig, repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ComplianceService {
	return &complianceService{
		pendingLimit: cfg.PendingDetailLimit,
		margin:       time.Duration(attCfg.CaptureMarginMinutes) * time.Minute,
		repo:         repo,
		clock:        clk,
		logger:       logger,
	}
}

// block 当天一个 CLASS 时段及其判定结果
type block struct {
	slot    *model.ScheduleSlot
	start   time.Duration
	end     time.Duration
	session *model.ClassSession
	status  BlockStatus
}

// ────────────────────── TodayCompliance ──────────────────────

func (s *complianceService) TodayCompliance(ctx context.Context, schoolYearID string) (*dto.TodayComplianceResponse, error) {
	now := s.clock.Now()
	today := clock.DateOf(now)

	resp := &dto.TodayComplianceResponse{
		Date:     clock.FormatDate(today),
		Weekday:  clock.ISOWeekday(today),
		Teachers: []dto.TeacherComplianceItem{},
	}

	// 1. 周末与登记的非上课日
	if clock.IsWeekend(today) {
		return resp, nil
	}
	resp.IsSchoolDay = true

	sy, err := s.resolveSchoolYear(ctx, schoolYearID, today)
	if err != nil {
		return nil, err
	}
	nsd, err := s.nonSchoolDay(ctx, sy.SchoolYearID, today)
	if err != nil {
		return nil, err
	}
	if nsd != nil {
		resp.NonSchoolDay = toNonSchoolDayResponse(nsd)
		return resp, nil
	}

	// 2-4. 今日 CLASS 时段与会话
	slots, err := s.repo.ScheduleSlot.ListActiveClassByWeekday(ctx, sy.SchoolYearID, resp.Weekday)
	if err != nil {
		s.logger.Error("查询今日课表失败", zap.String("school_year_id", sy.SchoolYearID), zap.Error(err))
		return nil, err
	}
	if len(slots) == 0 {
		return resp, nil
	}
	blocks, err := s.classifyBlocks(ctx, slots, today, now)
	if err != nil {
		return nil, err
	}

	// 5. 按教师聚合
	byTeacher := make(map[string]*teacherAgg)
	var order []string
	for i := range blocks {
		b := &blocks[i]
		if b.slot.TeacherID == nil {
			continue
		}
		id := *b.slot.TeacherID
		agg, ok := byTeacher[id]
		if !ok {
			agg = &teacherAgg{item: dto.TeacherComplianceItem{TeacherID: id}}
			if b.slot.Teacher != nil {
				agg.item.TeacherName = b.slot.Teacher.FullName()
			}
			byTeacher[id] = agg
			order = append(order, id)
		}
		agg.add(b)
		addToSummary(&resp.Summary, b.status)
	}

	// 6. 待补录多者优先，其次按姓名
	for _, id := range order {
		resp.Teachers = append(resp.Teachers, byTeacher[id].finish(s.pendingLimit, now.Location()))
	}
	sort.SliceStable(resp.Teachers, func(i, j int) bool {
		a, b := resp.Teachers[i], resp.Teachers[j]
		if a.PendingCount != b.PendingCount {
			return a.PendingCount > b.PendingCount
		}
		if a.TeacherName != b.TeacherName {
			return a.TeacherName < b.TeacherName
		}
		return a.TeacherID < b.TeacherID
	})

	// 7. 全局汇总
	resp.Summary.TeacherCount = len(resp.Teachers)
	return resp, nil
}

// ────────────────────── MyToday ──────────────────────

func (s *complianceService) MyToday(ctx context.Context, teacherID string) (*dto.MyTodayResponse, error) {
	now := s.clock.Now()
	today := clock.DateOf(now)

	resp := &dto.MyTodayResponse{
		Date:   clock.FormatDate(today),
		Blocks: []dto.MyBlockItem{},
	}
	if clock.IsWeekend(today) {
		return resp, nil
	}
	resp.IsSchoolDay = true

	sy, err := resolveSchoolYearForDate(ctx, s.repo, s.logger, today)
	if err != nil {
		return nil, err
	}
	nsd, err := s.nonSchoolDay(ctx, sy.SchoolYearID, today)
	if err != nil {
		return nil, err
	}
	if nsd != nil {
		resp.NonSchoolDay = toNonSchoolDayResponse(nsd)
		return resp, nil
	}

	slots, err := s.repo.ScheduleSlot.ListActiveClassByTeacher(ctx, teacherID, sy.SchoolYearID, clock.ISOWeekday(today))
	if err != nil {
		s.logger.Error("查询教师今日课表失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	if len(slots) == 0 {
		return resp, nil
	}
	blocks, err := s.classifyBlocks(ctx, slots, today, now)
	if err != nil {
		return nil, err
	}

	for i := range blocks {
		b := &blocks[i]
		item := dto.MyBlockItem{
			SlotID:            b.slot.SlotID,
			StartTime:         clock.FormatTimeOfDay(b.start),
			EndTime:           clock.FormatTimeOfDay(b.end),
			Status:            string(b.status),
			CaptureWindowOpen: InCaptureWindow(now, b.start, b.end, s.margin),
		}
		if b.slot.Course != nil {
			item.CourseName = b.slot.Course.Name
		}
		if b.slot.Subject != nil {
			item.SubjectName = b.slot.Subject.Name
		}
		resp.Blocks = append(resp.Blocks, item)
	}
	sort.SliceStable(resp.Blocks, func(i, j int) bool {
		return resp.Blocks[i].StartTime < resp.Blocks[j].StartTime
	})
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *complianceService) resolveSchoolYear(ctx context.Context, schoolYearID string, today time.Time) (*model.SchoolYear, error) {
	if schoolYearID != "" {
		return loadSchoolYear(ctx, s.repo, s.logger, schoolYearID)
	}
	return resolveSchoolYearForDate(ctx, s.repo, s.logger, today)
}

// nonSchoolDay 未登记时返回 nil, nil
func (s *complianceService) nonSchoolDay(ctx context.Context, schoolYearID string, date time.Time) (*model.NonSchoolDay, error) {
	nsd, err := s.repo.NonSchoolDay.GetByDate(ctx, schoolYearID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询非上课日失败", zap.String("school_year_id", schoolYearID), zap.Error(err))
		return nil, err
	}
	return nsd, nil
}

// classifyBlocks 一次查询取回所有时段当天的会话，再逐个判定状态
func (s *complianceService) classifyBlocks(ctx context.Context, slots []model.ScheduleSlot, today, now time.Time) ([]block, error) {
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.SlotID)
	}
	sessions, err := s.repo.ClassSession.ListBySlotsAndDate(ctx, ids, today)
	if err != nil {
		s.logger.Error("查询今日课堂会话失败", zap.Int("slots", len(ids)), zap.Error(err))
		return nil, err
	}
	bySlot := make(map[string]*model.ClassSession, len(sessions))
	for i := range sessions {
		bySlot[sessions[i].SlotID] = &sessions[i]
	}

	blocks := make([]block, 0, len(slots))
	for i := range slots {
		slot := &slots[i]
		start, end, err := slotTimes(slot)
		if err != nil {
			s.logger.Error("时段时间数据无效", zap.String("slot_id", slot.SlotID), zap.Error(err))
			return nil, err
		}
		session := bySlot[slot.SlotID]
		blocks = append(blocks, block{
			slot:    slot,
			start:   start,
			end:     end,
			session: session,
			status:  ClassifyBlock(today, today, now, start, end, session != nil),
		})
	}
	return blocks, nil
}

// ── 教师聚合 ──

type teacherAgg struct {
	item         dto.TeacherComplianceItem
	pending      []*block
	lastActivity time.Time
}

func (a *teacherAgg) add(b *block) {
	a.item.TotalBlocks++
	switch b.status {
	case BlockDone:
		a.item.Done++
		if b.session != nil && b.session.CreatedAt.After(a.lastActivity) {
			a.lastActivity = b.session.CreatedAt
		}
	case BlockMissed:
		a.item.Missed++
	case BlockInProgress:
		a.item.InProgress++
	case BlockScheduled:
		a.item.Scheduled++
	}
	if b.status.IsPending() {
		a.pending = append(a.pending, b)
	}
}

func (a *teacherAgg) finish(limit int, loc *time.Location) dto.TeacherComplianceItem {
	item := a.item
	item.CompliancePercentage = compliancePercentage(item.Done, item.Missed)
	if !a.lastActivity.IsZero() {
		ts := a.lastActivity.In(loc).Format(time.RFC3339)
		item.LastActivityTime = &ts
	}

	sort.SliceStable(a.pending, func(i, j int) bool { return a.pending[i].start < a.pending[j].start })
	item.PendingCount = len(a.pending)
	item.PendingBlocks = make([]dto.PendingBlock, 0, limit)
	for i, b := range a.pending {
		if i >= limit {
			break
		}
		pb := dto.PendingBlock{
			SlotID:    b.slot.SlotID,
			StartTime: clock.FormatTimeOfDay(b.start),
			EndTime:   clock.FormatTimeOfDay(b.end),
			Status:    string(b.status),
		}
		if b.slot.Course != nil {
			pb.CourseName = b.slot.Course.Name
		}
		if b.slot.Subject != nil {
			pb.SubjectName = b.slot.Subject.Name
		}
		item.PendingBlocks = append(item.PendingBlocks, pb)
	}
	return item
}

func addToSummary(sum *dto.ComplianceSummary, status BlockStatus) {
	sum.TotalBlocks++
	switch status {
	case BlockDone:
		sum.Done++
	case BlockMissed:
		sum.Missed++
	case BlockInProgress:
		sum.InProgress++
	case BlockScheduled:
		sum.Scheduled++
	}
}

// compliancePercentage DONE / (DONE+MISSED) * 100，保留两位小数；分母为 0 时返回 0
func compliancePercentage(done, missed int) float64 {
	if done+missed == 0 {
		return 0
	}
	return math.Round(float64(done)/float64(done+missed)*10000) / 100
}
