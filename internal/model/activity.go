package model

import "time"

const (
	ActionTaskCreated  = "Task Created"
	ActionTaskUpdated  = "Task Updated"
	ActionTaskDeleted  = "Task Deleted"
	ActionCommentAdded = "Comment Added"
)

// ActivityLogEntry records one task-affecting action. Entries outlive the
// task they reference; TaskTitle keeps them readable after deletion.
type ActivityLogEntry struct {
	ID        uint `gorm:"primaryKey"`
	TaskID    uint `gorm:"index"`
	UserID    uint
	Action    string `gorm:"size:64"`
	TaskTitle string
	Timestamp time.Time
}

func (ActivityLogEntry) TableName() string {
	return "activity_log"
}

// ActivityView is a log entry joined with the acting user's name.
type ActivityView struct {
	Action    string
	ActorName string
	Timestamp time.Time
}
