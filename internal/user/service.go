package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
	"github.com/wichananm65/elite-shop-backend/internal/auth"
)

const (
	MsgRegisterFieldsMissing = "Vui lòng điền đầy đủ thông tin"
	MsgEmailTaken            = "Email đã được sử dụng"
	MsgLoginFieldsMissing    = "Vui lòng nhập email và mật khẩu"
	MsgBadCredentials        = "Email hoặc mật khẩu không đúng"
	MsgUserNotFound          = "Không tìm thấy người dùng"
)

type Service struct {
	repo     Repository
	log      *zap.Logger
	hashCost int
	now      func() time.Time
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost; values outside bcrypt's range are ignored.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.hashCost = cost
		}
	}
}

func NewService(repo Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, log: log, hashCost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	return s.Create(ctx, name, email, password, auth.RoleUser)
}

// Create stores a new account with the given role. Register is the public
// path; seeding uses Create directly to provision admins.
func (s *Service) Create(ctx context.Context, name, email, password, role string) (User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return User{}, apperr.Validation(MsgRegisterFieldsMissing)
	}
	if role != auth.RoleAdmin {
		role = auth.RoleUser
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, apperr.Conflict(MsgEmailTaken)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, apperr.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return User{}, apperr.Internal(err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return User{}, apperr.Conflict(MsgEmailTaken)
		}
		return User{}, apperr.Internal(err)
	}

	s.log.Info("user registered", zap.String("user_id", created.ID), zap.String("role", created.Role))
	return created, nil
}

// Authenticate answers unknown emails and wrong passwords identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, apperr.Validation(MsgLoginFieldsMissing)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.Unauthorized(MsgBadCredentials)
		}
		return User{}, apperr.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, apperr.Unauthorized(MsgBadCredentials)
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.NotFound(MsgUserNotFound)
		}
		return User{}, apperr.Internal(err)
	}
	return user, nil
}

// Identity satisfies auth.Resolver.
func (s *Service) Identity(ctx context.Context, id string) (auth.Identity, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{ID: user.ID, Role: user.Role}, nil
}

func (s *Service) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
