package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdesk/internal/models"
)

// SessionCookie はセッショントークンを保存するクッキー名です。
const SessionCookie = "currentUser"

type sessionClaims struct {
	Session models.Session `json:"session"`
	jwt.RegisteredClaims
}

// SessionService はセッションを署名付きトークンとして発行・検証します。
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionService は新しいSessionServiceを作成します。
func NewSessionService(secret string, ttl time.Duration) *SessionService {
	return &SessionService{secret: []byte(secret), ttl: ttl}
}

// TTL はトークンとクッキーの有効期間です。
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Issue は正規化したセッションを HS256 で署名したトークンにします。
func (s *SessionService) Issue(session models.Session) (string, error) {
	session = models.NormalizeSession(session)
	if session.Role == models.RoleIdle {
		return "", errors.New("cannot issue token for idle session")
	}
	now := time.Now()
	claims := &sessionClaims{
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// Parse はトークンを検証し、正規化したセッションを返します。
func (s *SessionService) Parse(tokenString string) (models.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return models.IdleSession(), err
	}
	if !token.Valid {
		return models.IdleSession(), errors.New("invalid token")
	}
	return models.NormalizeSession(claims.Session), nil
}
