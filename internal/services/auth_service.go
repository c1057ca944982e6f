package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user with this email already exists")
)

// AuthService はモックサーバーのレコードと平文比較でログイン・登録を行います。
type AuthService struct {
	client *apiclient.Client
}

// NewAuthService は新しいAuthServiceを作成します。
func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{client: client}
}

// Login は管理者、一般ユーザーの順に照合し、最初に一致したセッションを返します。
// 管理者はユーザー名の完全一致、一般ユーザーはメールアドレスの大文字小文字を無視した一致です。
func (s *AuthService) Login(ctx context.Context, identifier, password string) (models.Session, error) {
	admin, err := s.client.GetAdmin(ctx)
	if err != nil {
		log.Printf("Failed to fetch admin: %v", err)
		return models.IdleSession(), fmt.Errorf("failed to fetch admin: %w", err)
	}
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return models.IdleSession(), fmt.Errorf("failed to fetch users: %w", err)
	}

	if identifier == admin.Username && password == admin.Password {
		return models.NormalizeSession(models.Session{Role: models.RoleAdmin, Username: admin.Username}), nil
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, identifier) && u.Password == password {
			return models.NormalizeSession(models.Session{
				Role:  models.RoleUser,
				ID:    u.ID,
				Name:  u.Name,
				Email: u.Email,
			}), nil
		}
	}
	return models.IdleSession(), ErrInvalidCredentials
}

// Register は小文字化したメールアドレスで重複を確認してからユーザーを作成します。
func (s *AuthService) Register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	existing, err := s.client.FindUsersByEmail(ctx, strings.ToLower(form.Email))
	if err != nil {
		log.Printf("Failed to check existing users: %v", err)
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	created, err := s.client.CreateUser(ctx, models.User{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		log.Printf("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	created.Password = "" // レスポンスにパスワードを含めない
	return created, nil
}
