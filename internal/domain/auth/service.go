package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"inventory/internal/core/apperror"
	appctx "inventory/internal/core/context"
	"inventory/internal/core/tx"
	"inventory/internal/domain"
	"inventory/pkg/logger"
)

// bootstrapLockKey guards EnsureAdmin across replicas.
const bootstrapLockKey = "inventory:bootstrap-admin"

// Service provides authentication and authorization logic.
type Service struct {
	userRepo   UserRepository
	txManager  tx.Manager
	jwtService *JWTService
	bcryptCost int
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, txManager tx.Manager, jwtService *JWTService) *Service {
	return &Service{
		userRepo:   userRepo,
		txManager:  txManager,
		jwtService: jwtService,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// Login authenticates the user and issues an access token.
// Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		logger.Warn(ctx, "login failed", "email", user.Email)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "role", user.Role)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// ValidateToken returns the principal carried by token.
func (s *Service) ValidateToken(token string) (*appctx.UserContext, error) {
	return s.jwtService.ValidateToken(token)
}

// Authorize reports whether principal holds one of allowed.
func Authorize(principal *appctx.UserContext, allowed ...string) bool {
	return principal.HasAnyRole(allowed...)
}

// CreateUser registers a user with a bcrypt password hash.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if len(req.Password) < PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", PasswordMinLength),
		).WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Name, req.Email, string(hash), req.Role)
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("check email exists: %w", err)
		}
		if exists {
			return apperror.NewDuplicate("user", "email", user.Email)
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// ListUsers returns users ordered by creation.
func (s *Service) ListUsers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error) {
	filter.Normalize()
	return s.userRepo.List(ctx, filter)
}

// EnsureAdmin creates the bootstrap admin when no admin exists yet.
// locker may be nil (single replica).
func (s *Service) EnsureAdmin(ctx context.Context, cfg BootstrapAdmin, locker Locker) (created bool, err error) {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Debug(ctx, "admin bootstrap skipped: not configured")
		return false, nil
	}

	if locker != nil {
		release, err := locker.Obtain(ctx, bootstrapLockKey)
		if err != nil {
			return false, fmt.Errorf("obtain bootstrap lock: %w", err)
		}
		defer func() {
			if relErr := release(ctx); relErr != nil {
				logger.Warn(ctx, "release bootstrap lock", "error", relErr)
			}
		}()
	}

	count, err := s.userRepo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	if _, err := s.CreateUser(ctx, CreateUserRequest{
		Name:     name,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     RoleAdmin,
	}); err != nil {
		if apperror.IsDuplicate(err) {
			return false, nil
		}
		return false, err
	}

	logger.Info(ctx, "bootstrap admin created", "email", NormalizeEmail(cfg.Email))
	return true, nil
}
