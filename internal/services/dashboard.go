package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"taskdesk/internal/models"
)

// DefaultRowsPerPage は許可されていない表示件数が指定されたときの値です。
const DefaultRowsPerPage = 5

var (
	UserRowsPerPageOptions  = []int{5, 10, 25}
	AdminRowsPerPageOptions = []int{5, 10, 20}
)

// Page はページング済みの一覧です。Page は 0 始まり。
type Page[T any] struct {
	Items              []T   `json:"items"`
	Total              int   `json:"total"`
	Page               int   `json:"page"`
	RowsPerPage        int   `json:"rowsPerPage"`
	RowsPerPageOptions []int `json:"rowsPerPageOptions"`
}

// FilterTodos はステータスとタイトル検索で絞り込みます。
// status が "all" か空なら絞り込みません。search は空白だけなら絞り込まず、
// それ以外は空白も含めたまま大文字小文字を無視して部分一致させます。
func FilterTodos(todos []models.Todo, status, search string) []models.Todo {
	filterByTitle := strings.TrimSpace(search) != ""
	search = strings.ToLower(search)
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if status != "" && status != "all" && string(t.Status) != status {
			continue
		}
		if filterByTitle && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortByDueDate は期限で安定ソートした新しいスライスを返します。
// 日付として解釈できないものは昇順・降順どちらでも末尾に置きます。
func SortByDueDate(todos []models.Todo, order string) []models.Todo {
	out := slices.Clone(todos)
	if order != "asc" && order != "desc" {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.Todo) int {
		ta, okA := a.DueTime()
		tb, okB := b.DueTime()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		if order == "desc" {
			return tb.Compare(ta)
		}
		return ta.Compare(tb)
	})
	return out
}

// Paginate は items を1ページ分に切り出します。
// rowsPerPage が options に無ければ DefaultRowsPerPage、page は範囲内に収めます。
func Paginate[T any](items []T, page, rowsPerPage int, options []int) Page[T] {
	if !slices.Contains(options, rowsPerPage) {
		rowsPerPage = DefaultRowsPerPage
	}
	total := len(items)
	lastPage := 0
	if total > 0 {
		lastPage = (total - 1) / rowsPerPage
	}
	if page > lastPage {
		page = lastPage
	}
	if page < 0 {
		page = 0
	}

	start := page * rowsPerPage
	end := min(start+rowsPerPage, total)
	pageItems := make([]T, 0, end-start)
	pageItems = append(pageItems, items[start:end]...)

	return Page[T]{
		Items:              pageItems,
		Total:              total,
		Page:               page,
		RowsPerPage:        rowsPerPage,
		RowsPerPageOptions: options,
	}
}

// RemainingTime は期限までの残り時間を表示用の文字列にします。
func RemainingTime(due string, now time.Time) string {
	dueTime, ok := models.ParseDueDate(due)
	if !ok {
		return "Overdue"
	}
	diff := dueTime.Sub(now)
	if diff <= 0 {
		return "Overdue"
	}
	days := int(diff / (24 * time.Hour))
	hours := int(diff/time.Hour) % 24
	minutes := int(diff/time.Minute) % 60
	seconds := int(diff/time.Second) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d day(s) left", days)
	case hours > 0:
		return fmt.Sprintf("%d hour(s) %d min left", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%d min %d sec left", minutes, seconds)
	default:
		return fmt.Sprintf("%d sec left", seconds)
	}
}

// StatusColor はステータスの表示色です。
func StatusColor(status models.TodoStatus) string {
	switch status {
	case models.StatusInProgress:
		return "primary"
	case models.StatusDone:
		return "success"
	default:
		return "default"
	}
}

// PriorityColor は優先度の表示色です。
func PriorityColor(priority models.TodoPriority) string {
	switch priority {
	case models.PriorityHigh:
		return "error"
	case models.PriorityLow:
		return "warning"
	default:
		return "default"
	}
}

// AddTag は前後の空白を除いたタグを追加します。空や重複は無視します。
func AddTag(tags []string, input string) []string {
	tag := strings.TrimSpace(input)
	out := slices.Clone(tags)
	if out == nil {
		out = []string{}
	}
	if tag == "" || slices.Contains(out, tag) {
		return out
	}
	return append(out, tag)
}

// NormalizeTags はフォームから届いたタグを AddTag と同じ規則で並べ直します。
func NormalizeTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		out = AddTag(out, t)
	}
	return out
}

// RemoveTag は一致するタグを取り除きます。
func RemoveTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// TodoView は画面表示用に残り時間と色を付けたタスクです。
type TodoView struct {
	models.Todo
	Remaining     string `json:"remaining"`
	StatusColor   string `json:"statusColor"`
	PriorityColor string `json:"priorityColor"`
}

// NewTodoViews は一覧の各タスクに表示用の値を付けます。
func NewTodoViews(todos []models.Todo, now time.Time) []TodoView {
	views := make([]TodoView, 0, len(todos))
	for _, t := range todos {
		views = append(views, TodoView{
			Todo:          t,
			Remaining:     RemainingTime(t.DueDate, now),
			StatusColor:   StatusColor(t.Status),
			PriorityColor: PriorityColor(t.Priority),
		})
	}
	return views
}

// RemainingEntry は SSE で送る1件分の残り時間です。
type RemainingEntry struct {
	ID        int    `json:"id"`
	Remaining string `json:"remaining"`
}

// RemainingTimes は一覧全体の残り時間を計算します。
func RemainingTimes(todos []models.Todo, now time.Time) []RemainingEntry {
	out := make([]RemainingEntry, 0, len(todos))
	for _, t := range todos {
		out = append(out, RemainingEntry{ID: t.ID, Remaining: RemainingTime(t.DueDate, now)})
	}
	return out
}
