package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/dto"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
)

// seedComplianceDay 2026-04-01（周三）课表：
//
//	t1: c1 08/09/10/11 点，c2 12 点；t2: c2 08 点、14 点；t3: c1 14 点
//	已考勤：t1 c1 08 点（08:10），t2 c2 08 点（08:05）
func seedComplianceDay(env *testEnv) {
	env.seedSlot("t1-08", "c1", "t1", "s1", 3, "08:00:00", "09:00:00")
	env.seedSlot("t1-09", "c1", "t1", "s1", 3, "09:00:00", "10:00:00")
	env.seedSlot("t1-10", "c1", "t1", "s2", 3, "10:00:00", "11:00:00")
	env.seedSlot("t1-11", "c1", "t1", "s2", 3, "11:00:00", "12:00:00")
	env.seedSlot("t1-12", "c2", "t1", "s2", 3, "12:00:00", "13:00:00")
	env.seedSlot("t2-08", "c2", "t2", "s2", 3, "08:00:00", "09:00:00")
	env.seedSlot("t2-14", "c2", "t2", "s2", 3, "14:00:00", "15:00:00")
	env.seedSlot("t3-14", "c1", "t3", "s3", 3, "14:00:00", "15:00:00")
	// 其他星期的课不计入
	env.seedSlot("t1-thu", "c1", "t1", "s1", 4, "09:00:00", "10:00:00")
	// LUNCH 不计入
	env.slots.slots["lunch"] = &model.ScheduleSlot{
		SlotID: "lunch", SchoolYearID: "sy-2026", CourseID: "c1", Type: model.SlotTypeLunch,
		Weekday: 3, StartTime: "13:00:00", EndTime: "14:00:00", Active: true,
	}

	env.sessions.insertDirect(&model.ClassSession{
		SlotID: "t1-08", Date: ymd(2026, 4, 1), CreatedAt: at(2026, 4, 1, 8, 10), UpdatedAt: at(2026, 4, 1, 8, 10),
	})
	env.sessions.insertDirect(&model.ClassSession{
		SlotID: "t2-08", Date: ymd(2026, 4, 1), CreatedAt: at(2026, 4, 1, 8, 5), UpdatedAt: at(2026, 4, 1, 8, 5),
	})
	// 上周的会话不影响今天
	env.sessions.insertDirect(&model.ClassSession{
		SlotID: "t1-09", Date: ymd(2026, 3, 25), CreatedAt: at(2026, 3, 25, 9, 10), UpdatedAt: at(2026, 3, 25, 9, 10),
	})
}

// ── TodayCompliance ──

func TestComplianceService_TodayCompliance_Aggregation(t *testing.T) {
	env := newTestEnv(at(2026, 4, 1, 12, 30))
	seedComplianceDay(env)

	resp, err := env.svc.Compliance.TodayCompliance(context.Background(), "")
	if err != nil {
		t.Fatalf("TodayCompliance 应成功: %v", err)
	}
	if resp.Date != "2026-04-01" || resp.Weekday != 3 || !resp.IsSchoolDay {
		t.Errorf("日期信息错误: %+v", resp)
	}

	sum := resp.Summary
	if sum.TotalBlocks != 8 || sum.Done != 2 || sum.Missed != 3 || sum.InProgress != 1 || sum.Scheduled != 2 || sum.TeacherCount != 3 {
		t.Errorf("汇总错误: %+v", sum)
	}

	if len(resp.Teachers) != 3 {
		t.Fatalf("期望 3 位教师，实际 %d", len(resp.Teachers))
	}
	order := []string{resp.Teachers[0].TeacherID, resp.Teachers[1].TeacherID, resp.Teachers[2].TeacherID}
	if order[0] != "t1" || order[1] != "t3" || order[2] != "t2" {
		t.Errorf("期望排序 [t1 t3 t2]，实际 %v", order)
	}

	ana := resp.Teachers[0]
	if ana.TotalBlocks != 5 || ana.Done != 1 || ana.Missed != 3 || ana.InProgress != 1 {
		t.Errorf("t1 统计错误: %+v", ana)
	}
	if ana.CompliancePercentage != 25 {
		t.Errorf("t1 期望合规率 25，实际 %v", ana.CompliancePercentage)
	}
	if ana.PendingCount != 4 || len(ana.PendingBlocks) != 3 {
		t.Fatalf("t1 期望待补录 4 个、明细 3 个，实际 %d / %d", ana.PendingCount, len(ana.PendingBlocks))
	}
	for i, want := range []string{"09:00", "10:00", "11:00"} {
		if ana.PendingBlocks[i].StartTime != want || ana.PendingBlocks[i].Status != string(BlockMissed) {
			t.Errorf("待补录[%d] 期望 %s MISSED，实际 %+v", i, want, ana.PendingBlocks[i])
		}
	}
	if ana.PendingBlocks[0].CourseName != "1°A" || ana.PendingBlocks[0].SubjectName != "Matemática" {
		t.Errorf("待补录明细应附带班级和科目，实际 %+v", ana.PendingBlocks[0])
	}
	if ana.LastActivityTime == nil || *ana.LastActivityTime != "2026-04-01T08:10:00-03:00" {
		t.Errorf("t1 最近考勤时间错误: %v", ana.LastActivityTime)
	}

	carla := resp.Teachers[1]
	if carla.Scheduled != 1 || carla.CompliancePercentage != 0 || carla.LastActivityTime != nil {
		t.Errorf("t3 统计错误: %+v", carla)
	}
	if carla.PendingBlocks == nil || len(carla.PendingBlocks) != 0 {
		t.Errorf("无待补录时应返回空列表，实际 %v", carla.PendingBlocks)
	}

	zoe := resp.Teachers[2]
	if zoe.Done != 1 || zoe.Scheduled != 1 || zoe.CompliancePercentage != 100 {
		t.Errorf("t2 统计错误: %+v", zoe)
	}
}

func TestComplianceService_TodayCompliance_Weekend(t *testing.T) {
	env := newTestEnv(at(2026, 4, 4, 10, 0))
	seedComplianceDay(env)

	resp, err := env.svc.Compliance.TodayCompliance(context.Background(), "")
	if err != nil {
		t.Fatalf("周末应正常返回: %v", err)
	}
	if resp.IsSchoolDay || resp.Weekday != 6 || len(resp.Teachers) != 0 || resp.Summary.TotalBlocks != 0 {
		t.Errorf("周末应为非上课日空看板，实际 %+v", resp)
	}
}

func TestComplianceService_TodayCompliance_WeekendBeforeSchoolYear(t *testing.T) {
	// 学年之外的周末不报错
	env := newTestEnv(at(2027, 2, 6, 10, 0))

	resp, err := env.svc.Compliance.TodayCompliance(context.Background(), "")
	if err != nil {
		t.Fatalf("周末不应解析学年: %v", err)
	}
	if resp.IsSchoolDay {
		t.Error("周末应为非上课日")
	}
}

func TestComplianceService_TodayCompliance_NonSchoolDay(t *testing.T) {
	env := newTestEnv(at(2026, 4, 1, 12, 30))
	seedComplianceDay(env)
	env.nonSchool.days["nsd-1"] = &model.NonSchoolDay{
		NonSchoolDayID: "nsd-1", SchoolYearID: "sy-2026", Date: ymd(2026, 4, 1),
		Type: model.NonSchoolDayAdministrative, Description: "Jornada de evaluación",
	}

	resp, err := env.svc.Compliance.TodayCompliance(context.Background(), "")
	if err != nil {
		t.Fatalf("TodayCompliance 应成功: %v", err)
	}
	if resp.NonSchoolDay == nil || resp.NonSchoolDay.Type != model.NonSchoolDayAdministrative {
		t.Errorf("应返回当日非上课日信息，实际 %+v", resp.NonSchoolDay)
	}
	if len(resp.Teachers) != 0 || resp.Summary.TotalBlocks != 0 {
		t.Errorf("非上课日不应统计课时，实际 %+v", resp.Summary)
	}
}

func TestComplianceService_TodayCompliance_NoSlots(t *testing.T) {
	env := newTestEnv(at(2026, 4, 1, 12, 30))

	resp, err := env.svc.Compliance.TodayCompliance(context.Background(), "")
	if err != nil {
		t.Fatalf("TodayCompliance 应成功: %v", err)
	}
	if !resp.IsSchoolDay || resp.Teachers == nil || len(resp.Teachers) != 0 || resp.Summary.TotalBlocks != 0 {
		t.Errorf("无课表应返回空看板，实际 %+v", resp)
	}
}

func TestComplianceService_TodayCompliance_SchoolYearResolution(t *testing.T) {
	env := newTestEnv(at(2026, 4, 1, 12, 30))
	seedComplianceDay(env)

	if _, err := env.svc.Compliance.TodayCompliance(context.Background(), "sy-2026"); err != nil {
		t.Errorf("显式指定学年应成功: %v", err)
	}
	if _, err := env.svc.Compliance.TodayCompliance(context.Background(), "sy-1999"); !errors.Is(err, ErrSchoolYearNotFound) {
		t.Errorf("期望 ErrSchoolYearNotFound，实际: %v", err)
	}

	// 工作日但不在任何教学期内
	outside := newTestEnv(at(2027, 2, 3, 10, 0))
	if _, err := outside.svc.Compliance.TodayCompliance(context.Background(), ""); !errors.Is(err, ErrNoSchoolYearForDate) {
		t.Errorf("期望 ErrNoSchoolYearForDate，实际: %v", err)
	}
}

func TestComplianceService_TodayCompliance_AfterAttendanceSaved(t *testing.T) {
	env := newTestEnv(at(2026, 4, 1, 12, 30))
	seedComplianceDay(env)
	ctx := context.Background()

	// 12 点的课在录入窗口内，保存后由 IN_PROGRESS 变为 DONE
	if _, err := env.svc.Attendance.SaveAttendance(ctx, &dto.SaveAttendanceRequest{SlotID: "t1-12", Date: "2026-04-01"}, "t1"); err != nil {
		t.Fatalf("SaveAttendance 应成功: %v", err)
	}
	resp, err := env.svc.Compliance.TodayCompliance(ctx, "")
	if err != nil {
		t.Fatalf("TodayCompliance 应成功: %v", err)
	}
	ana := resp.Teachers[0]
	if ana.Done != 2 || ana.InProgress != 0 || ana.PendingCount != 3 {
		t.Errorf("保存后 t1 期望 DONE=2 待补录=3，实际 %+v", ana)
	}
	if ana.CompliancePercentage != 40 {
		t.Errorf("期望合规率 40，实际 %v", ana.CompliancePercentage)
	}
	if *ana.LastActivityTime != "2026-04-01T12:30:00-03:00" {
		t.Errorf("最近考勤时间应为新会话创建时间，实际 %s", *ana.LastActivityTime)
	}
}

// ── MyToday ──

func TestComplianceService_MyToday(t *testing.T) {
	env := newTestEnv(at(2026, 4, 1, 12, 50))
	seedComplianceDay(env)

	resp, err := env.svc.Compliance.MyToday(context.Background(), "t1")
	if err != nil {
		t.Fatalf("MyToday 应成功: %v", err)
	}
	if len(resp.Blocks) != 5 {
		t.Fatalf("期望 5 个课时，实际 %d", len(resp.Blocks))
	}
	want := []struct {
		start  string
		status BlockStatus
		open   bool
	}{
		{"08:00", BlockDone, false},
		{"09:00", BlockMissed, false},
		{"10:00", BlockMissed, false},
		{"11:00", BlockMissed, false},
		{"12:00", BlockInProgress, true},
	}
	for i, w := range want {
		b := resp.Blocks[i]
		if b.StartTime != w.start || b.Status != string(w.status) || b.CaptureWindowOpen != w.open {
			t.Errorf("课时[%d] 期望 %s %s open=%v，实际 %+v", i, w.start, w.status, w.open, b)
		}
	}
	if resp.Blocks[4].CourseName != "1°B" {
		t.Errorf("期望班级 1°B，实际 %s", resp.Blocks[4].CourseName)
	}
}

func TestComplianceService_MyToday_WindowAfterEnd(t *testing.T) {
	// 13:10 课已结束但仍在 15 分钟窗口内
	env := newTestEnv(at(2026, 4, 1, 13, 10))
	seedComplianceDay(env)

	resp, err := env.svc.Compliance.MyToday(context.Background(), "t1")
	if err != nil {
		t.Fatalf("MyToday 应成功: %v", err)
	}
	last := resp.Blocks[len(resp.Blocks)-1]
	if last.Status != string(BlockMissed) || !last.CaptureWindowOpen {
		t.Errorf("期望 MISSED 且窗口仍开放，实际 %+v", last)
	}
}

func TestComplianceService_MyToday_NoBlocks(t *testing.T) {
	env := newTestEnv(at(2026, 4, 1, 9, 0))
	seedComplianceDay(env)

	resp, err := env.svc.Compliance.MyToday(context.Background(), "t9")
	if err != nil {
		t.Fatalf("MyToday 应成功: %v", err)
	}
	if !resp.IsSchoolDay || resp.Blocks == nil || len(resp.Blocks) != 0 {
		t.Errorf("无课时应返回空列表，实际 %+v", resp)
	}
}
