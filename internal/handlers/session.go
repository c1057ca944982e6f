package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

const (
	sessionKey   = "session"
	RequestIDKey = "request_id"

	// FlashCookie は登録完了メッセージを次のログイン画面へ渡すクッキーです。
	FlashCookie = "registerSuccess"
)

// SetSession はリクエスト中のセッションをコンテキストに保存します。
func SetSession(c *gin.Context, s models.Session) {
	c.Set(sessionKey, models.NormalizeSession(s))
}

// CurrentSession はコンテキストのセッションを返します。未設定なら idle です。
func CurrentSession(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(models.Session); ok {
			return s
		}
	}
	return models.IdleSession()
}

// SetSessionCookie はトークンを currentUser クッキーに保存します。
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	setCookie(c, services.SessionCookie, token, int(ttl.Seconds()))
}

// ClearSessionCookie は currentUser クッキーを削除します。
func ClearSessionCookie(c *gin.Context) {
	setCookie(c, services.SessionCookie, "", -1)
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", c.Request.TLS != nil, true)
}

// consumeFlash はフラッシュメッセージを読み出して削除します。
func consumeFlash(c *gin.Context) string {
	msg, err := c.Cookie(FlashCookie)
	if err != nil || msg == "" {
		return ""
	}
	setCookie(c, FlashCookie, "", -1)
	return msg
}

// logf はリクエストIDを付けてログを出力します。
func logf(c *gin.Context, format string, args ...any) {
	if id := c.GetString(RequestIDKey); id != "" {
		log.Printf("[%s] %s", id, fmt.Sprintf(format, args...))
		return
	}
	log.Printf(format, args...)
}
