package service

import (
	"go.uber.org/zap"

	"github.com/fmandres92/schoolmate-backend-sub002/config"
	"github.com/fmandres92/schoolmate-backend-sub002/internal/repository"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// Service 所有 Service 的聚合入口
type Service struct {
	SchoolYear SchoolYearService
	Calendar   CalendarService
	Curriculum CurriculumService
	Slot       ScheduleSlotService
	Attendance AttendanceService
	Compliance ComplianceService
}

// NewService 创建 Service 聚合
// 所有时间相关判断都从 clk 读取“现在”
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	clk clock.Clock,
	logger *zap.Logger,
) (*Service, error) {
	window, err := NewScheduleWindow(&cfg.Schedule)
	if err != nil {
		return nil, err
	}

	return &Service{
		SchoolYear: NewSchoolYearService(repo, clk, logger),
		Calendar:   NewCalendarService(repo, clk, logger),
		Curriculum: NewCurriculumService(repo, clk, logger),
		Slot:       NewScheduleSlotService(window, repo, clk, logger),
		Attendance: NewAttendanceService(&cfg.Attendance, repo, clk, logger),
		Compliance: NewComplianceService(&cfg.Compliance, &cfg.Attendance, repo, clk, logger),
	}, nil
}
