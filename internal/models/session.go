package models

// Role はセッションのロールです。
type Role string

const (
	RoleIdle  Role = "idle"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Session はログイン中の識別情報です。
// user の場合は ID/Name/Email、admin の場合は Username だけを持ちます。
type Session struct {
	Role     Role   `json:"role"`
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// IdleSession は未ログイン状態です。
func IdleSession() Session {
	return Session{Role: RoleIdle}
}

// NormalizeSession はロールごとに保持するフィールドだけを残します。
// 未知のロールはすべてクリアして idle に戻します。
func NormalizeSession(s Session) Session {
	switch s.Role {
	case RoleAdmin:
		return Session{Role: RoleAdmin, Username: s.Username}
	case RoleUser:
		return Session{Role: RoleUser, ID: s.ID, Name: s.Name, Email: s.Email}
	default:
		return IdleSession()
	}
}

func (s Session) IsUser() bool  { return s.Role == RoleUser }
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Home はロールごとの遷移先です。
func (s Session) Home() string {
	switch s.Role {
	case RoleUser:
		return "/"
	case RoleAdmin:
		return "/admin-dashboard"
	default:
		return "/login"
	}
}
