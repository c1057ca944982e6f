package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskdesk/internal/handlers"
	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

// Area はルートガードの種類です。
type Area int

const (
	// AreaAuth はログイン・登録画面です。ログイン済みなら各ロールのホームへ戻します。
	AreaAuth Area = iota
	// AreaUser は一般ユーザー専用です。
	AreaUser
	// AreaAdmin は管理者専用です。
	AreaAdmin
)

// RequestIDMiddleware は X-Request-ID を引き継ぐか採番し、レスポンスとコンテキストに設定します。
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlers.RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// SessionMiddleware は currentUser クッキーからセッションを復元し、コンテキストに設定するミドルウェアです。
// 検証できないクッキーは削除して未ログインとして扱います。
func SessionMiddleware(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := models.IdleSession()
		if token, err := c.Cookie(services.SessionCookie); err == nil && token != "" {
			parsed, err := sessionService.Parse(token)
			if err != nil {
				handlers.ClearSessionCookie(c)
			} else {
				session = parsed
			}
		}
		handlers.SetSession(c, session)
		c.Next()
	}
}

// Guard はロールに応じてアクセスを許可するか、リダイレクトします。
func Guard(area Area) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := handlers.CurrentSession(c)
		switch area {
		case AreaAuth:
			if session.IsUser() || session.IsAdmin() {
				redirect(c, session.Home())
				return
			}
		case AreaUser:
			if !session.IsUser() {
				redirect(c, "/login")
				return
			}
		case AreaAdmin:
			if !session.IsAdmin() {
				redirect(c, "/login")
				return
			}
		}
		c.Next()
	}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
