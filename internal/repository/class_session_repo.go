package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fmandres92/schoolmate-backend-sub002/internal/model"
	"github.com/fmandres92/schoolmate-backend-sub002/pkg/clock"
)

// ClassSessionRepository 课堂考勤数据访问接口
type ClassSessionRepository interface {
	GetBySlotAndDate(ctx context.Context, slotID string, date time.Time) (*model.ClassSession, error)
	// Create 并发首次提交时可能返回 ConstraintError(ux_class_sessions_slot_date)
	Create(ctx context.Context, session *model.ClassSession) error
	// ReplaceRecords 在单个事务内锁定会话行，删除旧记录后插入新记录
	ReplaceRecords(ctx context.Context, sessionID string, records []model.AttendanceRecord, now time.Time) error
	ListRecords(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error)
	ListBySlotsAndDate(ctx context.Context, slotIDs []string, date time.Time) ([]model.ClassSession, error)
	// Transaction 在单个数据库事务内执行 fn，fn 返回错误时会话与记录一并回滚
	Transaction(ctx context.Context, fn func(sessions ClassSessionRepository) error) error
}

type classSessionRepo struct {
	db *gorm.DB
}

// NewClassSessionRepo 创建 ClassSessionRepository 实例
func NewClassSessionRepo(db *gorm.DB) ClassSessionRepository {
	return &classSessionRepo{db: db}
}

func (r *classSessionRepo) GetBySlotAndDate(ctx context.Context, slotID string, date time.Time) (*model.ClassSession, error) {
	var session model.ClassSession
	err := r.db.WithContext(ctx).
		Where("slot_id = ? AND date = ?", slotID, clock.FormatDate(date)).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create 以嵌套事务插入；处于外层事务中时 gorm 使用 SAVEPOINT，
// 唯一冲突只回滚到保存点，外层事务仍可继续重读
func (r *classSessionRepo) Create(ctx context.Context, session *model.ClassSession) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Records").Create(session).Error
	}))
}

func (r *classSessionRepo) Transaction(ctx context.Context, fn func(sessions ClassSessionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&classSessionRepo{db: tx})
	})
}

func (r *classSessionRepo) ReplaceRecords(ctx context.Context, sessionID string, records []model.AttendanceRecord, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.ClassSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_id = ?", sessionID).
			First(&session).Error; err != nil {
			return err
		}

		if err := tx.Where("session_id = ?", sessionID).
			Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}

		if len(records) > 0 {
			for i := range records {
				records[i].SessionID = sessionID
				records[i].CreatedAt = now
				records[i].UpdatedAt = now
			}
			if err := tx.Omit("Student").Create(&records).Error; err != nil {
				return translateError(err)
			}
		}

		return tx.Model(&model.ClassSession{}).
			Where("session_id = ?", sessionID).
			Update("updated_at", now).Error
	})
}

func (r *classSessionRepo) ListRecords(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("session_id = ?", sessionID).
		Find(&records).Error
	return records, err
}

// ListBySlotsAndDate 单次查询取回一组时段在指定日期的会话
func (r *classSessionRepo) ListBySlotsAndDate(ctx context.Context, slotIDs []string, date time.Time) ([]model.ClassSession, error) {
	var sessions []model.ClassSession
	if len(slotIDs) == 0 {
		return sessions, nil
	}
	err := r.db.WithContext(ctx).
		Where("slot_id IN ? AND date = ?", slotIDs, clock.FormatDate(date)).
		Find(&sessions).Error
	return sessions, err
}
