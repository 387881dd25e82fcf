package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/apperr"
	"github.com/d60-Lab/waimai/pkg/auth"
	"github.com/d60-Lab/waimai/pkg/logger"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Name     string
	Password string
	Phone    string
	Address  string
	Type     model.UserType
}

// AuthService 注册与登录
type AuthService interface {
	// Register 公开注册，不允许创建管理员
	Register(ctx context.Context, in RegisterInput) (*model.User, error)

	// CreateUser 不限制用户类型，供运维命令使用
	CreateUser(ctx context.Context, in RegisterInput) (*model.User, error)

	// Login 校验密码并签发令牌
	Login(ctx context.Context, name, password string) (string, *model.User, error)

	// ListUsers 管理员查看全部用户，按 id 升序
	ListUsers(ctx context.Context) ([]*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.Manager
	now    func() time.Time
	cost   int
}

func NewAuthService(users repository.UserRepository, tokens *auth.Manager, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{users: users, tokens: tokens, now: now, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Type == model.UserTypeAdmin {
		return nil, apperr.Forbidden("auth.Register", "admin accounts cannot be self-registered")
	}
	return s.CreateUser(ctx, in)
}

func (s *authService) CreateUser(ctx context.Context, in RegisterInput) (*model.User, error) {
	const op = "auth.CreateUser"
	if in.Name == "" || in.Password == "" || in.Phone == "" {
		return nil, apperr.InvalidArgument(op, "name, password and phone are required")
	}
	if !in.Type.Valid() {
		return nil, apperr.InvalidArgument(op, fmt.Sprintf("unknown user type %d", in.Type))
	}

	exists, err := s.users.ExistsByNameOrPhone(ctx, in.Name, in.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(op, "user name or phone already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Name:         in.Name,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Address:      in.Address,
		Type:         in.Type,
		CreatedAt:    s.now(),
	}
	// 并发注册可能越过上面的存在性检查，由唯一索引兜底
	if err := s.users.Create(ctx, u); errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Conflict(op, "user name or phone already registered")
	} else if err != nil {
		return nil, err
	}
	logger.Info("user registered", zap.Int64("user_id", u.ID), zap.String("name", u.Name), zap.Int8("type", int8(u.Type)))
	return u, nil
}

func (s *authService) Login(ctx context.Context, name, password string) (string, *model.User, error) {
	const op = "auth.Login"
	u, err := s.users.GetByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperr.Unauthorized(op, "invalid user name or password")
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized(op, "invalid user name or password")
	}

	token, err := s.tokens.Issue(auth.Principal{
		UserID: u.ID,
		Name:   u.Name,
		Role:   auth.RoleFromUserType(int(u.Type)),
	})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}
