package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role 调用方角色
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

// 用户类型编码，与 model.UserType 一致
const (
	userTypeCustomer = 0
	userTypeMerchant = 1
	userTypeAdmin    = 2
)

// RoleFromUserType 将用户类型映射为角色，未知类型按顾客处理
func RoleFromUserType(t int) Role {
	switch t {
	case userTypeAdmin:
		return RoleAdmin
	case userTypeMerchant:
		return RoleMerchant
	default:
		return RoleCustomer
	}
}

// Principal 已认证的调用方
type Principal struct {
	UserID int64
	Name   string
	Role   Role
}

// Claims JWT 声明
type Claims struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Manager 负责签发与校验 HS256 令牌
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	expire   time.Duration
	now      func() time.Time
}

func NewManager(secret, issuer, audience string, expire time.Duration) *Manager {
	if expire <= 0 {
		expire = 12 * time.Hour
	}
	return &Manager{secret: []byte(secret), issuer: issuer, audience: audience, expire: expire, now: time.Now}
}

// Issue 为用户签发令牌
func (m *Manager) Issue(p Principal) (string, error) {
	now := m.now()
	claims := Claims{
		Name: p.Name,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse 校验令牌并还原调用方
func (m *Manager) Parse(token string) (*Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return &Principal{UserID: id, Name: claims.Name, Role: claims.Role}, nil
}
