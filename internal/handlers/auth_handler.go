package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/models"
	"taskdesk/internal/services"
	"taskdesk/internal/validation"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgSomethingWrong     = "Something went wrong. Please try again."
	msgEmailTaken         = "User with this email already exists"
	msgRegistered         = "Account created successfully! Please login."
)

// AuthHandler はログイン・登録・ログアウトを管理します。
type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
}

// NewAuthHandler は新しいAuthHandlerを作成します。
func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

// LoginPageHandler はログイン画面です。登録直後ならフラッシュメッセージを1度だけ返します。
func (h *AuthHandler) LoginPageHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"flash": consumeFlash(c),
		"form":  models.LoginForm{},
	})
}

// LoginHandler はログインを処理し、成功したらセッションクッキーを発行します。
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginForm
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, validation.LoginMessages)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}
		logf(c, "Login failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgSomethingWrong})
		return
	}

	token, err := h.sessionService.Issue(session)
	if err != nil {
		logf(c, "Failed to issue session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSomethingWrong})
		return
	}
	SetSessionCookie(c, token, h.sessionService.TTL())
	SetSession(c, session)

	c.JSON(http.StatusOK, gin.H{"redirect": session.Home(), "session": session})
}

// RegisterPageHandler は登録画面です。
func (h *AuthHandler) RegisterPageHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": models.RegisterForm{}})
}

// RegisterHandler はユーザー登録を処理します。
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterForm
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, validation.RegisterMessages)
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"errors": gin.H{"email": msgEmailTaken}})
			return
		}
		logf(c, "Register failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgSomethingWrong})
		return
	}

	setCookie(c, FlashCookie, msgRegistered, 60)
	c.JSON(http.StatusCreated, gin.H{"redirect": "/login"})
}

// LogoutHandler はセッションクッキーを削除します。
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	ClearSessionCookie(c)
	SetSession(c, models.IdleSession())
	c.JSON(http.StatusOK, gin.H{"redirect": "/login"})
}

// respondBindError はバリデーションエラーをフィールドごとのメッセージで返します。
// JSON の構文エラーなどバリデーション以外の失敗は一律のエラーにします。
func respondBindError(c *gin.Context, err error, msgs validation.Messages) {
	if fieldErrors := validation.FieldErrors(err, msgs); fieldErrors != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
}
