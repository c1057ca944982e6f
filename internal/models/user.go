package models

// User はモックサーバーの /users に登録されている一般ユーザーです。
// パスワードは平文のまま保存・比較されます。
type User struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Admin は GET /auth が返す唯一の管理者レコードです。
type Admin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserSummary は管理者ダッシュボードの1行分です。
type UserSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TotalTodos int    `json:"totalTodos"` // 未完了 (done 以外) のタスク数
}
