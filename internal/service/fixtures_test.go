package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/fmandres92/schoolmate-backend-sub002/config"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/repository"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// ── 测试辅助 ──

var clt = time.FixedZone("CLT", -3*3600)

// at 返回 CLT 时区的时刻
func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, clt)
}

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func testConfig() *config.Config {
	return &config.Config{
		Schedule:   config.ScheduleConfig{DayStart: "08:00", DayEnd: "17:00", BlockMinutes: 60},
		Attendance: config.AttendanceConfig{CaptureMarginMinutes: 15},
		Compliance: config.ComplianceConfig{PendingDetailLimit: 3},
	}
}

type testEnv struct {
	clk         *clock.Mock
	repo        *repository.Repository
	years       *mockSchoolYearRepo
	nonSchool   *mockNonSchoolDayRepo
	grades      *mockGradeRepo
	courses     *mockCourseRepo
	subjects    *mockSubjectRepo
	teachers    *mockTeacherRepo
	curriculum  *mockCurriculumRepo
	slots       *mockScheduleSlotRepo
	enrollments *mockEnrollmentRepo
	sessions    *mockClassSessionRepo
	svc         *Service
}

// newTestEnv 预置 2026 学年（教学期 2026-03-01 至 2026-12-20）及基础目录数据
//
//	班级 c1 (1°A) / c2 (1°B)，年级 g1
//	科目 s1 数学(周 2 课时) / s2 语言(周 4 课时) / s3 音乐(无课程计划)
//	教师 t1 Ana Rojas: s1 s2；t2 Zoe Ibarra: s2；t3 Carla Muñoz: s3
func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		clk:       clock.NewMock(now),
		years:     newMockSchoolYearRepo(),
		nonSchool: newMockNonSchoolDayRepo(),
		grades:    &mockGradeRepo{grades: map[string]*model.Grade{"g1": {GradeID: "g1", Name: "1° Básico", Level: 1}}},
		courses: &mockCourseRepo{courses: map[string]*model.Course{
			"c1": {CourseID: "c1", Name: "1°A", GradeID: "g1", SchoolYearID: "sy-2026", IsActive: true},
			"c2": {CourseID: "c2", Name: "1°B", GradeID: "g1", SchoolYearID: "sy-2026", IsActive: true},
		}},
		curriculum:  newMockCurriculumRepo(),
		enrollments: &mockEnrollmentRepo{},
		sessions:    newMockClassSessionRepo(),
	}

	s1 := model.Subject{SubjectID: "s1", Name: "Matemática", IsActive: true}
	s2 := model.Subject{SubjectID: "s2", Name: "Lenguaje", IsActive: true}
	s3 := model.Subject{SubjectID: "s3", Name: "Música", IsActive: true}
	env.subjects = &mockSubjectRepo{subjects: map[string]*model.Subject{"s1": &s1, "s2": &s2, "s3": &s3}}
	env.teachers = &mockTeacherRepo{teachers: map[string]*model.Teacher{
		"t1": {TeacherID: "t1", FirstName: "Ana", LastName: "Rojas", IsActive: true, Subjects: []model.Subject{s1, s2}},
		"t2": {TeacherID: "t2", FirstName: "Zoe", LastName: "Ibarra", IsActive: true, Subjects: []model.Subject{s2}},
		"t3": {TeacherID: "t3", FirstName: "Carla", LastName: "Muñoz", IsActive: true, Subjects: []model.Subject{s3}},
	}}
	env.slots = newMockScheduleSlotRepo(env.courses)

	env.years.years["sy-2026"] = &model.SchoolYear{
		SchoolYearID:  "sy-2026",
		Year:          2026,
		PlanningStart: ymd(2026, 1, 5),
		TermStart:     ymd(2026, 3, 1),
		TermEnd:       ymd(2026, 12, 20),
	}
	env.curriculum.allocs["alloc-s1"] = &model.CurriculumAllocation{
		AllocationID: "alloc-s1", SubjectID: "s1", GradeID: "g1", SchoolYearID: "sy-2026", WeeklyHours: 2, Active: true,
	}
	env.curriculum.allocs["alloc-s2"] = &model.CurriculumAllocation{
		AllocationID: "alloc-s2", SubjectID: "s2", GradeID: "g1", SchoolYearID: "sy-2026", WeeklyHours: 4, Active: true,
	}

	env.repo = &repository.Repository{
		SchoolYear:   env.years,
		NonSchoolDay: env.nonSchool,
		Grade:        env.grades,
		Course:       env.courses,
		Subject:      env.subjects,
		Teacher:      env.teachers,
		Curriculum:   env.curriculum,
		ScheduleSlot: env.slots,
		Enrollment:   env.enrollments,
		ClassSession: env.sessions,
	}

	svc, err := NewService(testConfig(), env.repo, env.clk, zap.NewNop())
	if err != nil {
		panic(err)
	}
	env.svc = svc
	return env
}

// seedSlot 直接写入一个有效 CLASS 时段，绕过创建规则
func (e *testEnv) seedSlot(id, courseID, teacherID, subjectID string, weekday int, start, end string) *model.ScheduleSlot {
	slot := &model.ScheduleSlot{
		SlotID:       id,
		SchoolYearID: "sy-2026",
		CourseID:     courseID,
		TeacherID:    strPtr(teacherID),
		SubjectID:    strPtr(subjectID),
		Type:         model.SlotTypeClass,
		Weekday:      weekday,
		StartTime:    start,
		EndTime:      end,
		Active:       true,
		Course:       e.courses.courses[courseID],
		Teacher:      e.teachers.teachers[teacherID],
		Subject:      e.subjects.subjects[subjectID],
	}
	e.slots.slots[id] = slot
	return slot
}
