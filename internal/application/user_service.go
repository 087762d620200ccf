package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/danisatya/asset-management-api/internal/domain/entity"
	repo "github.com/danisatya/asset-management-api/internal/domain/repository"
	"github.com/danisatya/asset-management-api/pkg/helpers"
	"github.com/danisatya/asset-management-api/pkg/mailer"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles registration, credential verification, token issuance
// and the IP-change security alert fired on login.
type UserService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, notifier Notifier, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, JWT: jwt, Notifier: notifier, Logger: logger}
}

// IPChange describes a login from a new source address. Old is nil when the
// account had no previously recorded address.
type IPChange struct {
	Old *string
	New string
}

// DetectIPChange decides whether a login warrants a security alert. It is a
// pure function over (previously recorded address, current address) so the
// decision can be tested independently of the notification transport.
func DetectIPChange(last *string, current string) *IPChange {
	if last == nil {
		return &IPChange{New: current}
	}
	if *last != current {
		return &IPChange{Old: last, New: current}
	}
	return nil
}

// Register creates a user from email and plaintext password. The plaintext is
// hashed immediately and never stored.
func (s *UserService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials, fires the IP-change alert when the source
// address moved, records the current address, and issues a bearer token.
// The comparison uses the address recorded before this login.
func (s *UserService) Login(ctx context.Context, email, password, clientIP string) (*entity.User, helpers.TokenResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, helpers.TokenResult{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, helpers.TokenResult{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, helpers.TokenResult{}, ErrInactiveAccount
	}

	if change := DetectIPChange(u.LastLoginIP, clientIP); change != nil && s.Notifier != nil {
		job := mailer.NewIPChangeAlertJob(u.Email, change.Old, change.New)
		// Best-effort: alert delivery never blocks the login.
		if err := s.Notifier.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("ip change alert publish failed")
		}
	}

	if err := s.Repo.UpdateLastLoginIP(ctx, u.ID, clientIP); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to record login ip")
	}
	u.LastLoginIP = &clientIP

	token, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, helpers.TokenResult{}, err
	}
	return u, helpers.TokenResult{AccessToken: token, ExpiresAt: exp}, nil
}

// GetActiveUser resolves a token subject back to an active user. Used by the
// authentication middleware on every protected operation.
func (s *UserService) GetActiveUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if !u.IsActive {
		return nil, ErrInactiveAccount
	}
	return u, nil
}
