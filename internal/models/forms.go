package models

// LoginForm はログインリクエストです。Identifier はユーザー名またはメールアドレス。
type LoginForm struct {
	Identifier string `json:"identifier" form:"identifier" binding:"required"`
	Password   string `json:"password" form:"password" binding:"required"`
}

// RegisterForm はユーザー登録リクエストです。
type RegisterForm struct {
	Name     string `json:"name" form:"name" binding:"min=2"`
	Email    string `json:"email" form:"email" binding:"email"`
	Password string `json:"password" form:"password" binding:"min=6,hasupper,hasdigit"`
}

// TaskForm はタスク作成・編集フォームです。
type TaskForm struct {
	Title       string       `json:"title" form:"title" binding:"required,notblank"`
	Status      TodoStatus   `json:"status" form:"status" binding:"oneof=todo inProgress done"`
	DueDate     string       `json:"dueDate" form:"dueDate" binding:"required,datetime=2006-01-02,notpast"`
	Description string       `json:"description" form:"description" binding:"required,notblank"`
	Priority    TodoPriority `json:"priority" form:"priority" binding:"oneof=high low"`
	Tags        []string     `json:"tags" form:"tags"`
}

// NewTaskForm は作成画面の初期値を返します。
func NewTaskForm() TaskForm {
	return TaskForm{Status: StatusTodo, Priority: PriorityLow, Tags: []string{}}
}

// TaskFormFromTodo は編集画面用に既存タスクからフォームを組み立てます。
func TaskFormFromTodo(t Todo) TaskForm {
	form := NewTaskForm()
	form.Title = t.Title
	form.Description = t.Description
	form.DueDate = DatePart(t.DueDate)
	if t.Status != "" {
		form.Status = t.Status
	}
	if t.Priority != "" {
		form.Priority = t.Priority
	}
	if t.Tags != nil {
		form.Tags = append([]string{}, t.Tags...)
	}
	return form
}

// ToTodo はフォームを担当ユーザー付きの Todo に変換します。
func (f TaskForm) ToTodo(assignedUser int) Todo {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return Todo{
		Title:        f.Title,
		Description:  f.Description,
		Status:       f.Status,
		Priority:     f.Priority,
		DueDate:      f.DueDate,
		Tags:         tags,
		AssignedUser: assignedUser,
	}
}

// ToPatch はフォーム全体を PATCH 用の差分に変換します。
func (f TaskForm) ToPatch(assignedUser int) TodoPatch {
	t := f.ToTodo(assignedUser)
	return TodoPatch{
		Title:        &t.Title,
		Description:  &t.Description,
		Status:       &t.Status,
		Priority:     &t.Priority,
		DueDate:      &t.DueDate,
		Tags:         &t.Tags,
		AssignedUser: &t.AssignedUser,
	}
}
