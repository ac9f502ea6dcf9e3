package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/repository"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// ── Mock SchoolYearRepository ──

type mockSchoolYearRepo struct {
	years map[string]*model.SchoolYear
	seq   int
}

func newMockSchoolYearRepo() *mockSchoolYearRepo {
	return &mockSchoolYearRepo{years: make(map[string]*model.SchoolYear)}
}

func (m *mockSchoolYearRepo) Create(_ context.Context, sy *model.SchoolYear) error {
	if sy.SchoolYearID == "" {
		m.seq++
		sy.SchoolYearID = fmt.Sprintf("sy-%d", m.seq)
	}
	m.years[sy.SchoolYearID] = sy
	return nil
}

func (m *mockSchoolYearRepo) GetByID(_ context.Context, id string) (*model.SchoolYear, error) {
	if sy, ok := m.years[id]; ok {
		return sy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolYearRepo) GetCurrent(_ context.Context) (*model.SchoolYear, error) {
	for _, sy := range m.years {
		if sy.IsActive {
			return sy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolYearRepo) GetByDate(_ context.Context, date time.Time) (*model.SchoolYear, error) {
	d := clock.DateOf(date)
	for _, sy := range m.years {
		if !d.Before(sy.TermStart) && !d.After(sy.TermEnd) {
			return sy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolYearRepo) List(_ context.Context) ([]model.SchoolYear, error) {
	var result []model.SchoolYear
	for _, sy := range m.years {
		result = append(result, *sy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TermStart.After(result[j].TermStart) })
	return result, nil
}

func (m *mockSchoolYearRepo) ExistsOverlapping(_ context.Context, start, end time.Time, excludeID string) (bool, error) {
	for id, sy := range m.years {
		if id == excludeID {
			continue
		}
		if !sy.TermStart.After(end) && !sy.TermEnd.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSchoolYearRepo) Update(_ context.Context, sy *model.SchoolYear) error {
	m.years[sy.SchoolYearID] = sy
	return nil
}

func (m *mockSchoolYearRepo) ClearActive(_ context.Context) error {
	for _, sy := range m.years {
		sy.IsActive = false
	}
	return nil
}

// ── Mock NonSchoolDayRepository ──

type mockNonSchoolDayRepo struct {
	days map[string]*model.NonSchoolDay
	seq  int
}

func newMockNonSchoolDayRepo() *mockNonSchoolDayRepo {
	return &mockNonSchoolDayRepo{days: make(map[string]*model.NonSchoolDay)}
}

func (m *mockNonSchoolDayRepo) BatchCreate(_ context.Context, days []model.NonSchoolDay) error {
	for i := range days {
		for _, d := range m.days {
			if d.SchoolYearID == days[i].SchoolYearID && d.Date.Equal(days[i].Date) {
				return &repository.ConstraintError{Constraint: repository.ConstraintNonSchoolDayDate}
			}
		}
	}
	for i := range days {
		m.seq++
		days[i].NonSchoolDayID = fmt.Sprintf("nsd-%d", m.seq)
		d := days[i]
		m.days[d.NonSchoolDayID] = &d
	}
	return nil
}

func (m *mockNonSchoolDayRepo) GetByID(_ context.Context, id string) (*model.NonSchoolDay, error) {
	if d, ok := m.days[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNonSchoolDayRepo) GetByDate(_ context.Context, schoolYearID string, date time.Time) (*model.NonSchoolDay, error) {
	for _, d := range m.days {
		if d.SchoolYearID == schoolYearID && clock.SameDate(d.Date, date) {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNonSchoolDayRepo) ListBySchoolYear(_ context.Context, schoolYearID string) ([]model.NonSchoolDay, error) {
	var result []model.NonSchoolDay
	for _, d := range m.days {
		if d.SchoolYearID == schoolYearID {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockNonSchoolDayRepo) ListBetween(ctx context.Context, schoolYearID string, from, to time.Time) ([]model.NonSchoolDay, error) {
	all, _ := m.ListBySchoolYear(ctx, schoolYearID)
	var result []model.NonSchoolDay
	for _, d := range all {
		if !d.Date.Before(from) && !d.Date.After(to) {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockNonSchoolDayRepo) Delete(_ context.Context, id string) error {
	delete(m.days, id)
	return nil
}

// ── Mock 目录 Repository ──

type mockGradeRepo struct{ grades map[string]*model.Grade }

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	if g, ok := m.grades[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockCourseRepo struct{ courses map[string]*model.Course }

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockSubjectRepo struct{ subjects map[string]*model.Subject }

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockTeacherRepo struct{ teachers map[string]*model.Teacher }

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CurriculumRepository ──

type mockCurriculumRepo struct {
	allocs map[string]*model.CurriculumAllocation
	seq    int
}

func newMockCurriculumRepo() *mockCurriculumRepo {
	return &mockCurriculumRepo{allocs: make(map[string]*model.CurriculumAllocation)}
}

func (m *mockCurriculumRepo) Create(_ context.Context, a *model.CurriculumAllocation) error {
	for _, e := range m.allocs {
		if e.Active && e.SubjectID == a.SubjectID && e.GradeID == a.GradeID && e.SchoolYearID == a.SchoolYearID {
			return &repository.ConstraintError{Constraint: repository.ConstraintCurriculumActive}
		}
	}
	if a.AllocationID == "" {
		m.seq++
		a.AllocationID = fmt.Sprintf("alloc-%d", m.seq)
	}
	m.allocs[a.AllocationID] = a
	return nil
}

func (m *mockCurriculumRepo) GetByID(_ context.Context, id string) (*model.CurriculumAllocation, error) {
	if a, ok := m.allocs[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCurriculumRepo) FindActive(_ context.Context, subjectID, gradeID, schoolYearID string) (*model.CurriculumAllocation, error) {
	for _, a := range m.allocs {
		if a.Active && a.SubjectID == subjectID && a.GradeID == gradeID && a.SchoolYearID == schoolYearID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCurriculumRepo) List(_ context.Context, schoolYearID, gradeID string) ([]model.CurriculumAllocation, error) {
	var result []model.CurriculumAllocation
	for _, a := range m.allocs {
		if !a.Active || a.SchoolYearID != schoolYearID {
			continue
		}
		if gradeID != "" && a.GradeID != gradeID {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockCurriculumRepo) Update(_ context.Context, a *model.CurriculumAllocation) error {
	m.allocs[a.AllocationID] = a
	return nil
}

// ── Mock ScheduleSlotRepository ──
// Create 模拟数据库的两个部分唯一索引

type mockScheduleSlotRepo struct {
	mu      sync.Mutex
	slots   map[string]*model.ScheduleSlot
	courses *mockCourseRepo
	seq     int
	// createErr 非 nil 时 Create 直接返回该错误
	createErr error
}

func newMockScheduleSlotRepo(courses *mockCourseRepo) *mockScheduleSlotRepo {
	return &mockScheduleSlotRepo{slots: make(map[string]*model.ScheduleSlot), courses: courses}
}

func sameStart(a, b string) bool {
	return normalizeTime(a) == normalizeTime(b)
}

func (m *mockScheduleSlotRepo) Create(_ context.Context, slot *model.ScheduleSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, s := range m.slots {
		if !s.Active || s.Weekday != slot.Weekday || !sameStart(s.StartTime, slot.StartTime) {
			continue
		}
		if s.CourseID == slot.CourseID {
			return &repository.ConstraintError{Constraint: repository.ConstraintSlotCourseTime}
		}
		if s.IsClass() && slot.IsClass() && s.SchoolYearID == slot.SchoolYearID &&
			s.TeacherID != nil && slot.TeacherID != nil && *s.TeacherID == *slot.TeacherID {
			return &repository.ConstraintError{Constraint: repository.ConstraintSlotTeacherTime}
		}
	}
	if slot.SlotID == "" {
		m.seq++
		slot.SlotID = fmt.Sprintf("slot-%d", m.seq)
	}
	cp := *slot
	m.slots[slot.SlotID] = &cp
	return nil
}

func (m *mockScheduleSlotRepo) GetByID(_ context.Context, id string) (*model.ScheduleSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleSlotRepo) ExistsActiveSlot(_ context.Context, courseID string, weekday int, startTime string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.Active && s.CourseID == courseID && s.Weekday == weekday && sameStart(s.StartTime, startTime) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScheduleSlotRepo) ExistsTeacherConflict(_ context.Context, teacherID string, weekday int, startTime, schoolYearID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.Active && s.IsClass() && s.TeacherID != nil && *s.TeacherID == teacherID &&
			s.Weekday == weekday && sameStart(s.StartTime, startTime) && s.SchoolYearID == schoolYearID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScheduleSlotRepo) CountAssignedWeeklyHours(_ context.Context, courseID, subjectID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.slots {
		if s.Active && s.IsClass() && s.CourseID == courseID && s.SubjectID != nil && *s.SubjectID == subjectID {
			n++
		}
	}
	return n, nil
}

func (m *mockScheduleSlotRepo) MaxAssignedWeeklyHours(_ context.Context, subjectID, gradeID, schoolYearID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	perCourse := make(map[string]int)
	for _, s := range m.slots {
		if !s.Active || !s.IsClass() || s.SchoolYearID != schoolYearID || s.SubjectID == nil || *s.SubjectID != subjectID {
			continue
		}
		if c, ok := m.courses.courses[s.CourseID]; ok && c.GradeID == gradeID {
			perCourse[s.CourseID]++
		}
	}
	max := 0
	for _, n := range perCourse {
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (m *mockScheduleSlotRepo) Deactivate(_ context.Context, id string, updatedBy *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok || !s.Active {
		return gorm.ErrRecordNotFound
	}
	s.Active = false
	s.UpdatedBy = updatedBy
	return nil
}

func (m *mockScheduleSlotRepo) list(match func(s *model.ScheduleSlot) bool) []model.ScheduleSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ScheduleSlot
	for _, s := range m.slots {
		if match(s) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Weekday != result[j].Weekday {
			return result[i].Weekday < result[j].Weekday
		}
		return normalizeTime(result[i].StartTime) < normalizeTime(result[j].StartTime)
	})
	return result
}

func (m *mockScheduleSlotRepo) ListByCourse(_ context.Context, courseID string) ([]model.ScheduleSlot, error) {
	return m.list(func(s *model.ScheduleSlot) bool { return s.Active && s.CourseID == courseID }), nil
}

func (m *mockScheduleSlotRepo) ListActiveClassByWeekday(_ context.Context, schoolYearID string, weekday int) ([]model.ScheduleSlot, error) {
	return m.list(func(s *model.ScheduleSlot) bool {
		return s.Active && s.IsClass() && s.SchoolYearID == schoolYearID && s.Weekday == weekday
	}), nil
}

func (m *mockScheduleSlotRepo) ListActiveClassByTeacher(_ context.Context, teacherID, schoolYearID string, weekday int) ([]model.ScheduleSlot, error) {
	return m.list(func(s *model.ScheduleSlot) bool {
		return s.Active && s.IsClass() && s.TeacherID != nil && *s.TeacherID == teacherID &&
			s.SchoolYearID == schoolYearID && s.Weekday == weekday
	}), nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments []model.Enrollment
}

func (m *mockEnrollmentRepo) ListActiveByCourse(_ context.Context, courseID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.CourseID == courseID && e.Status == model.EnrollmentActive {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock ClassSessionRepository ──
// 并发安全；Create 对 (slot, date) 模拟唯一约束

type mockClassSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.ClassSession
	records  map[string][]model.AttendanceRecord
	seq      int
	creates  int
	replaces int
	// beforeCreate 在插入检查前调用（不持锁），用于模拟另一请求抢先插入
	beforeCreate func()
	// rereadErr 唯一冲突后的重读返回该错误
	rereadErr error
	// replaceErr 非空时 ReplaceRecords 直接返回该错误
	replaceErr error
	conflicts  int
	rollbacks  int
}

func newMockClassSessionRepo() *mockClassSessionRepo {
	return &mockClassSessionRepo{
		sessions: make(map[string]*model.ClassSession),
		records:  make(map[string][]model.AttendanceRecord),
	}
}

func (m *mockClassSessionRepo) find(slotID string, date time.Time) *model.ClassSession {
	for _, s := range m.sessions {
		if s.SlotID == slotID && clock.SameDate(s.Date, date) {
			return s
		}
	}
	return nil
}

// insertDirect 不经过唯一约束检查直接写入，测试用来预置数据
func (m *mockClassSessionRepo) insertDirect(s *model.ClassSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.SessionID == "" {
		m.seq++
		s.SessionID = fmt.Sprintf("sess-%d", m.seq)
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
}

func (m *mockClassSessionRepo) GetBySlotAndDate(_ context.Context, slotID string, date time.Time) (*model.ClassSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts > 0 && m.rereadErr != nil {
		return nil, m.rereadErr
	}
	if s := m.find(slotID, date); s != nil {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassSessionRepo) Create(_ context.Context, session *model.ClassSession) error {
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(session.SlotID, session.Date) != nil {
		m.conflicts++
		return &repository.ConstraintError{Constraint: repository.ConstraintSessionSlotDate}
	}
	m.seq++
	session.SessionID = fmt.Sprintf("sess-%d", m.seq)
	m.creates++
	cp := *session
	m.sessions[session.SessionID] = &cp
	return nil
}

func (m *mockClassSessionRepo) ReplaceRecords(_ context.Context, sessionID string, records []model.AttendanceRecord, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	fresh := make([]model.AttendanceRecord, len(records))
	for i, r := range records {
		r.SessionID = sessionID
		r.RecordID = fmt.Sprintf("%s-rec-%d", sessionID, i)
		r.CreatedAt = now
		r.UpdatedAt = now
		fresh[i] = r
	}
	m.records[sessionID] = fresh
	s.UpdatedAt = now
	m.replaces++
	return nil
}

func (m *mockClassSessionRepo) ListRecords(_ context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AttendanceRecord(nil), m.records[sessionID]...), nil
}

func (m *mockClassSessionRepo) ListBySlotsAndDate(_ context.Context, slotIDs []string, date time.Time) ([]model.ClassSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ClassSession
	for _, id := range slotIDs {
		if s := m.find(id, date); s != nil {
			result = append(result, *s)
		}
	}
	return result, nil
}

// Transaction 记录事务内新建的会话与被覆盖的记录，fn 失败时撤销
func (m *mockClassSessionRepo) Transaction(_ context.Context, fn func(sessions repository.ClassSessionRepository) error) error {
	tx := &mockClassSessionTx{mockClassSessionRepo: m, prevRecords: make(map[string][]model.AttendanceRecord)}
	if err := fn(tx); err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, id := range tx.created {
			delete(m.sessions, id)
			delete(m.records, id)
		}
		for id, prev := range tx.prevRecords {
			if _, ok := m.sessions[id]; ok {
				m.records[id] = prev
			}
		}
		m.rollbacks++
		return err
	}
	return nil
}

type mockClassSessionTx struct {
	*mockClassSessionRepo
	created     []string
	prevRecords map[string][]model.AttendanceRecord
}

func (tx *mockClassSessionTx) Create(ctx context.Context, session *model.ClassSession) error {
	if err := tx.mockClassSessionRepo.Create(ctx, session); err != nil {
		return err
	}
	tx.created = append(tx.created, session.SessionID)
	return nil
}

func (tx *mockClassSessionTx) ReplaceRecords(ctx context.Context, sessionID string, records []model.AttendanceRecord, now time.Time) error {
	if _, seen := tx.prevRecords[sessionID]; !seen {
		prev, _ := tx.ListRecords(ctx, sessionID)
		tx.prevRecords[sessionID] = prev
	}
	return tx.mockClassSessionRepo.ReplaceRecords(ctx, sessionID, records, now)
}

func (m *mockClassSessionRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
