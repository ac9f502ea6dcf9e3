package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/fmandres92/schoolmate-backend-sub002/pkg/errors"
)

// 迁移脚本中定义的唯一约束名，Service 层据此区分冲突类型
const (
	ConstraintSlotCourseTime     = "ux_schedule_slots_course_time"
	ConstraintSlotTeacherTime    = "ux_schedule_slots_teacher_time"
	ConstraintSessionSlotDate    = "ux_class_sessions_slot_date"
	ConstraintNonSchoolDayDate   = "ux_non_school_days_year_date"
	ConstraintCurriculumActive   = "ux_curriculum_active"
	ConstraintSingleActiveSchool = "ux_school_years_single_active"
)

const pgUniqueViolation = "23505"

// ConstraintError 唯一约束冲突，errors.Is(err, pkgerrors.ErrUniqueViolation) 为 true
type ConstraintError struct {
	Constraint string
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return pkgerrors.ErrUniqueViolation.Error()
	}
	return pkgerrors.ErrUniqueViolation.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Unwrap() error { return pkgerrors.ErrUniqueViolation }

// ViolatedConstraint 提取冲突的约束名；非唯一约束错误返回空串
func ViolatedConstraint(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// translateError 将 PostgreSQL 唯一约束错误翻译为 ConstraintError，其余原样返回
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &ConstraintError{Constraint: pgErr.ConstraintName}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConstraintError{}
	}
	return err
}
