package model

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	// FilterAll disables a status or priority filter.
	FilterAll = "All"

	// DeadlineLayout is the storage format of Task.Deadline.
	DeadlineLayout = "2006-01-02"
)

var (
	Statuses   = []string{StatusOpen, StatusInProgress, StatusDone}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Title       string
	Description string
	Status      string    `gorm:"index;size:32"`
	Priority    string    `gorm:"index;size:32"`
	Deadline    string    `gorm:"size:10"`
	CreatedAt   time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func IsStatus(v string) bool {
	return contains(Statuses, v)
}

func IsPriority(v string) bool {
	return contains(Priorities, v)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
