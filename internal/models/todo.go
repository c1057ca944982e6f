// Package modelsはTodo・User・セッションを定義します。
package models

import (
	"strings"
	"time"
)

// TodoStatus はタスクの進捗状態です。
type TodoStatus string

const (
	StatusTodo       TodoStatus = "todo"
	StatusInProgress TodoStatus = "inProgress"
	StatusDone       TodoStatus = "done"
)

// TodoPriority はタスクの優先度です。
type TodoPriority string

const (
	PriorityHigh TodoPriority = "high"
	PriorityLow  TodoPriority = "low"
)

// DateLayout は dueDate の日付部分のフォーマットです。
const DateLayout = "2006-01-02"

type Todo struct {
	ID           int          `json:"id,omitempty"` // 主キー (モックサーバーが採番)
	Title        string       `json:"title"`        // タスクのタイトル
	Description  string       `json:"description"`  // 詳細
	Status       TodoStatus   `json:"status"`       // todo / inProgress / done
	Priority     TodoPriority `json:"priority"`     // high / low
	DueDate      string       `json:"dueDate"`      // 期限 (YYYY-MM-DD または RFC3339)
	Tags         []string     `json:"tags"`         // タグ
	AssignedUser int          `json:"assignedUser"` // 担当ユーザーID
}

// TodoPatch は PATCH /todo/{id} で送る部分更新です。nil のフィールドは変更しません。
type TodoPatch struct {
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Status       *TodoStatus   `json:"status,omitempty"`
	Priority     *TodoPriority `json:"priority,omitempty"`
	DueDate      *string       `json:"dueDate,omitempty"`
	Tags         *[]string     `json:"tags,omitempty"`
	AssignedUser *int          `json:"assignedUser,omitempty"`
}

// Apply はパッチの内容を t にマージします。
func (p TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.AssignedUser != nil {
		t.AssignedUser = *p.AssignedUser
	}
}

// DueTime は dueDate を時刻に変換します。日付のみの場合は UTC の 0 時として扱います。
func (t Todo) DueTime() (time.Time, bool) {
	return ParseDueDate(t.DueDate)
}

// dueDateLayouts は dueDate として受け付ける書式です。タイムゾーンのないものは UTC とみなします。
var dueDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// ParseDueDate は dueDateLayouts のいずれかの書式の文字列を解釈します。
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// DatePart は "2025-01-02T10:00:00Z" のような値から日付部分だけを返します。
func DatePart(s string) string {
	date, _, _ := strings.Cut(s, "T")
	return date
}
