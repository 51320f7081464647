package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	TokenTypeAdmin      = "admin"
	TokenTypeInvitation = "invitation"
)

// Claims - токен сотрудника портала
type Claims struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	jwt.RegisteredClaims
}

// InvitationClaims - токен приглашения на роль
type InvitationClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// AdminClaims - токен админ-портала (подписывается отдельным секретом)
type AdminClaims struct {
	AdminID string `json:"adminId"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager подписывает и проверяет HS256 токены одним секретом
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken выпускает токен сотрудника
func (m *TokenManager) GenerateToken(userID, email, designation string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      userID,
		Email:       email,
		Designation: designation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return m.sign(claims)
}

// ParseToken проверяет подпись и срок токена сотрудника
func (m *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateInvitationToken выпускает токен приглашения
func (m *TokenManager) GenerateInvitationToken(email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &InvitationClaims{
		Email: email,
		Role:  role,
		Type:  TokenTypeInvitation,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return m.sign(claims)
}

func (m *TokenManager) ParseInvitationToken(tokenStr string) (*InvitationClaims, error) {
	claims := &InvitationClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeInvitation || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateAdminToken выпускает токен админа
func (m *TokenManager) GenerateAdminToken(adminID string) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		AdminID: adminID,
		Type:    TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return m.sign(claims)
}

func (m *TokenManager) ParseAdminToken(tokenStr string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeAdmin || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) parse(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
