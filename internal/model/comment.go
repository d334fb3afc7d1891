package model

import "time"

// Comment is an append-only note left on a task.
type Comment struct {
	ID        uint `gorm:"primaryKey"`
	TaskID    uint `gorm:"index"`
	UserID    uint
	Body      string
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

// CommentView is a comment joined with its author's name.
type CommentView struct {
	Body       string
	AuthorName string
	CreatedAt  time.Time
}
