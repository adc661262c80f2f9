package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/mykafka"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	pkgdb "github.com/Skotchmaster/ecommerce_api/pkg/db"
	"github.com/Skotchmaster/ecommerce_api/pkg/hash"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
	"github.com/Skotchmaster/ecommerce_api/pkg/tokens"
)

const SignInSuccess = "user logged in successfully"

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Events    Publisher
	Now       func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SignUp checks, in order: email not taken, password confirmed, hash ok.
func (s *AuthService) SignUp(ctx context.Context, req transport.SignUpRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.Repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Warn("signup_hash_failed", "error", err)
		return nil, fmt.Errorf("%w: could not hash password", ErrValidation)
	}

	user := models.User{
		Name:     req.Name,
		Email:    email,
		Password: pwHash,
		Phone:    req.Phone,
		Country:  req.Country,
		Address:  req.Address,
		City:     req.City,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	publish(ctx, s.Events, mykafka.TopicUsers, user.ID.String(), "user_registered", map[string]any{
		"id":    user.ID,
		"email": user.Email,
	})
	return &user, nil
}

// SignIn answers unknown email and wrong password with the same error.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*transport.SignInResponse, error) {
	invalid := fmt.Errorf("%w: invalid credentials", ErrValidation)

	user, err := s.Repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !hash.CheckPassword(user.Password, password) {
		return nil, invalid
	}

	token, _, err := tokens.NewAccessToken(user.ID.String(), user.Email, tokens.RoleFor(user.IsAdmin), s.now(), s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot sign token: %v", ErrInternal, err)
	}
	return &transport.SignInResponse{Success: SignInSuccess, Token: token}, nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes and resets
// the password of an existing account with that email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("%w: admin email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: could not hash password", ErrValidation)
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.Repo.CreateUser(ctx, &models.User{
			Name:     "Administrator",
			Email:    email,
			Password: pwHash,
			IsAdmin:  true,
		})
	case err != nil:
		return err
	}

	user.IsAdmin = true
	user.Password = pwHash
	return s.Repo.SaveUser(ctx, user)
}
