package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// ActivityRepository appends to and reads the audit trail.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends one entry. There is no uniqueness constraint.
func (r *ActivityRepository) Log(ctx context.Context, taskID, userID uint, action, taskTitle string, at time.Time) error {
	entry := model.ActivityLogEntry{
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		TaskTitle: taskTitle,
		Timestamp: at,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

// ListByTask returns the trail of a task with actor names, newest first.
func (r *ActivityRepository) ListByTask(ctx context.Context, taskID uint) ([]model.ActivityView, error) {
	var entries []model.ActivityView
	err := r.db.WithContext(ctx).
		Table("activity_log AS a").
		Select("a.action AS action, u.name AS actor_name, a.timestamp AS timestamp").
		Joins("JOIN users u ON a.user_id = u.id").
		Where("a.task_id = ?", taskID).
		Order("a.timestamp DESC, a.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}
