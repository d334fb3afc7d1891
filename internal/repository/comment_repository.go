package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// CommentRepository stores task comments.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// ListByTask returns the comments of a task with author names, newest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID uint) ([]model.CommentView, error) {
	var comments []model.CommentView
	err := r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.body AS body, u.name AS author_name, c.created_at AS created_at").
		Joins("JOIN users u ON c.user_id = u.id").
		Where("c.task_id = ?", taskID).
		Order("c.created_at DESC, c.id DESC").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByTask(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.Comment{}).Error; err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}
