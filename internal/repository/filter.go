package repository

import (
	sq "github.com/Masterminds/squirrel"

	"task-tracker/internal/model"
)

// TaskFilter holds the optional listing filters. Empty fields, and
// FilterAll for Status and Priority, disable the corresponding predicate.
type TaskFilter struct {
	Search         string
	Status         string
	Priority       string
	DeadlineBefore string
}

// BuildTaskPredicates returns the conjunction applied to a task listing.
// Role scoping always comes first: students only ever see their own tasks.
func BuildTaskPredicates(identity model.Identity, f TaskFilter) sq.And {
	preds := sq.And{}

	if !identity.IsAdmin() {
		preds = append(preds, sq.Eq{"user_id": identity.UserID})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		preds = append(preds, sq.Or{
			sq.Like{"title": pattern},
			sq.Like{"description": pattern},
		})
	}

	if f.Status != "" && f.Status != model.FilterAll {
		preds = append(preds, sq.Eq{"status": f.Status})
	}

	if f.Priority != "" && f.Priority != model.FilterAll {
		preds = append(preds, sq.Eq{"priority": f.Priority})
	}

	if f.DeadlineBefore != "" {
		preds = append(preds, sq.LtOrEq{"deadline": f.DeadlineBefore})
	}

	return preds
}
