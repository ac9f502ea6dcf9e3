package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
)

// ScheduleSlotRepository 周课表时段数据访问接口
// 所有冲突查询仅针对 active = true 的时段，按 (weekday, start_time) 精确匹配
type ScheduleSlotRepository interface {
	Create(ctx context.Context, slot *model.ScheduleSlot) error
	GetByID(ctx context.Context, id string) (*model.ScheduleSlot, error)
	ExistsActiveSlot(ctx context.Context, courseID string, weekday int, startTime string) (bool, error)
	ExistsTeacherConflict(ctx context.Context, teacherID string, weekday int, startTime, schoolYearID string) (bool, error)
	CountAssignedWeeklyHours(ctx context.Context, courseID, subjectID string) (int, error)
	// MaxAssignedWeeklyHours 该年级下各班级对某科目已排课时的最大值
	MaxAssignedWeeklyHours(ctx context.Context, subjectID, gradeID, schoolYearID string) (int, error)
	Deactivate(ctx context.Context, id string, updatedBy *string) error
	ListByCourse(ctx context.Context, courseID string) ([]model.ScheduleSlot, error)
	ListActiveClassByWeekday(ctx context.Context, schoolYearID string, weekday int) ([]model.ScheduleSlot, error)
	ListActiveClassByTeacher(ctx context.Context, teacherID, schoolYearID string, weekday int) ([]model.ScheduleSlot, error)
}

type scheduleSlotRepo struct {
	db *gorm.DB
}

// NewScheduleSlotRepo 创建 ScheduleSlotRepository 实例
func NewScheduleSlotRepo(db *gorm.DB) ScheduleSlotRepository {
	return &scheduleSlotRepo{db: db}
}

func (r *scheduleSlotRepo) Create(ctx context.Context, slot *model.ScheduleSlot) error {
	return translateError(r.db.WithContext(ctx).
		Omit("Course", "Teacher", "Subject").
		Create(slot).Error)
}

func (r *scheduleSlotRepo) GetByID(ctx context.Context, id string) (*model.ScheduleSlot, error) {
	var slot model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Teacher").
		Preload("Subject").
		Where("slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *scheduleSlotRepo) ExistsActiveSlot(ctx context.Context, courseID string, weekday int, startTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleSlot{}).
		Where("course_id = ? AND weekday = ? AND start_time = ? AND active = ?",
			courseID, weekday, startTime, true).
		Count(&count).Error
	return count > 0, err
}

func (r *scheduleSlotRepo) ExistsTeacherConflict(ctx context.Context, teacherID string, weekday int, startTime, schoolYearID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleSlot{}).
		Where("teacher_id = ? AND weekday = ? AND start_time = ? AND school_year_id = ? AND type = ? AND active = ?",
			teacherID, weekday, startTime, schoolYearID, model.SlotTypeClass, true).
		Count(&count).Error
	return count > 0, err
}

// CountAssignedWeeklyHours 每个 CLASS 时段计为一个课时
func (r *scheduleSlotRepo) CountAssignedWeeklyHours(ctx context.Context, courseID, subjectID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleSlot{}).
		Where("course_id = ? AND subject_id = ? AND type = ? AND active = ?",
			courseID, subjectID, model.SlotTypeClass, true).
		Count(&count).Error
	return int(count), err
}

func (r *scheduleSlotRepo) MaxAssignedWeeklyHours(ctx context.Context, subjectID, gradeID, schoolYearID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(t.cnt), 0) FROM (
			SELECT s.course_id, COUNT(*) AS cnt
			FROM schedule_slots s
			JOIN courses c ON c.course_id = s.course_id
			WHERE s.subject_id = ? AND c.grade_id = ? AND s.school_year_id = ?
			  AND s.type = ? AND s.active = TRUE
			GROUP BY s.course_id
		) t`, subjectID, gradeID, schoolYearID, model.SlotTypeClass).
		Scan(&max).Error
	return max, err
}

func (r *scheduleSlotRepo) Deactivate(ctx context.Context, id string, updatedBy *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleSlot{}).
		Where("slot_id = ? AND active = ?", id, true).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleSlotRepo) ListByCourse(ctx context.Context, courseID string) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Subject").
		Where("course_id = ? AND active = ?", courseID, true).
		Order("weekday ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *scheduleSlotRepo) ListActiveClassByWeekday(ctx context.Context, schoolYearID string, weekday int) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Course").
		Preload("Subject").
		Where("school_year_id = ? AND weekday = ? AND type = ? AND active = ?",
			schoolYearID, weekday, model.SlotTypeClass, true).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *scheduleSlotRepo) ListActiveClassByTeacher(ctx context.Context, teacherID, schoolYearID string, weekday int) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Subject").
		Where("teacher_id = ? AND school_year_id = ? AND weekday = ? AND type = ? AND active = ?",
			teacherID, schoolYearID, weekday, model.SlotTypeClass, true).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}
