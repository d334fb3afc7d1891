package repository

import (
	"reflect"
	"testing"

	"task-tracker/internal/model"
)

func TestBuildTaskPredicates(t *testing.T) {
	student := model.Identity{UserID: 5, Role: model.RoleStudent}
	admin := model.Identity{UserID: 1, Role: model.RoleAdmin}

	tests := []struct {
		name     string
		identity model.Identity
		filter   TaskFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "student is always scoped",
			identity: student,
			wantSQL:  "(user_id = ?)",
			wantArgs: []interface{}{uint(5)},
		},
		{
			name:     "all sentinels are ignored",
			identity: student,
			filter:   TaskFilter{Status: model.FilterAll, Priority: model.FilterAll},
			wantSQL:  "(user_id = ?)",
			wantArgs: []interface{}{uint(5)},
		},
		{
			name:     "admin with status only",
			identity: admin,
			filter:   TaskFilter{Status: "open"},
			wantSQL:  "(status = ?)",
			wantArgs: []interface{}{"open"},
		},
		{
			name:     "every filter composes with AND after scoping",
			identity: student,
			filter: TaskFilter{
				Search:         "report",
				Status:         "open",
				Priority:       "high",
				DeadlineBefore: "2025-06-01",
			},
			wantSQL:  "(user_id = ? AND (title LIKE ? OR description LIKE ?) AND status = ? AND priority = ? AND deadline <= ?)",
			wantArgs: []interface{}{uint(5), "%report%", "%report%", "open", "high", "2025-06-01"},
		},
		{
			name:     "search input stays a bound parameter",
			identity: admin,
			filter:   TaskFilter{Search: "x' OR 1=1 --"},
			wantSQL:  "((title LIKE ? OR description LIKE ?))",
			wantArgs: []interface{}{"%x' OR 1=1 --%", "%x' OR 1=1 --%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := BuildTaskPredicates(tt.identity, tt.filter).ToSql()
			if err != nil {
				t.Fatalf("ToSql: %v", err)
			}
			if sql != tt.wantSQL {
				t.Fatalf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildTaskPredicates_AdminWithoutFilters(t *testing.T) {
	preds := BuildTaskPredicates(model.Identity{UserID: 1, Role: model.RoleAdmin}, TaskFilter{})
	if len(preds) != 0 {
		t.Fatalf("expected no predicates for admin, got %d", len(preds))
	}
}
