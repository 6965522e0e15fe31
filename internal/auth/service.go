package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/huntboard/huntboard/internal/mail"
	"github.com/huntboard/huntboard/internal/platform/httpx"
	"github.com/huntboard/huntboard/internal/token"
)

// ServiceConfig carries the tunable parts of the auth flows.
type ServiceConfig struct {
	BaseURL         string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	BcryptCost      int
}

// Service wraps the registration, verification, login and password reset rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
	tokens *token.Service
	mailer mail.Sender
	cfg    ServiceConfig
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo Repository, tokens *token.Service, mailer mail.Sender, cfg ServiceConfig) *Service {
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &Service{logger: logger, repo: repo, tokens: tokens, mailer: mailer, cfg: cfg}
}

// Register creates an unverified account and dispatches the verification
// email. The first account ever created becomes the administrator. Email
// delivery is best-effort and never rolls back the account.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", httpx.ErrValidation)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, httpx.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already exists", httpx.ErrDuplicate)
	}

	taken, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, httpx.ErrNotFound) {
		return nil, fmt.Errorf("check existing username: %w", err)
	}
	if taken != nil {
		return nil, fmt.Errorf("%w: username already taken", httpx.ErrDuplicate)
	}

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	hash, err := HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	verificationToken, err := token.NewOneTime()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(s.cfg.VerificationTTL)

	user := &User{
		Username:           username,
		Email:              email,
		PasswordHash:       hash,
		Role:               RoleForUserCount(count),
		VerificationToken:  &verificationToken,
		VerificationExpiry: &expires,
	}

	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists", httpx.ErrDuplicate)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	s.sendVerificationEmail(ctx, email, verificationToken)

	return user, nil
}

// VerifyEmail consumes a verification token, marks the account verified and
// returns a session token so the client is logged in right away.
func (s *Service) VerifyEmail(ctx context.Context, verificationToken string) (*User, string, error) {
	user, err := s.repo.FindByVerificationToken(ctx, verificationToken, time.Now())
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid or expired verification token", httpx.ErrValidation)
		}
		return nil, "", fmt.Errorf("find by verification token: %w", err)
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return nil, "", err
	}
	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationExpiry = nil

	session, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, session, nil
}

// ResendVerification regenerates the verification token for an unverified
// account and resends the email.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		return fmt.Errorf("find by email: %w", err)
	}
	if user.IsVerified {
		return fmt.Errorf("%w: this account is already verified", httpx.ErrValidation)
	}

	verificationToken, err := token.NewOneTime()
	if err != nil {
		return err
	}
	if err := s.repo.SetVerificationToken(ctx, user.ID, verificationToken, time.Now().Add(s.cfg.VerificationTTL)); err != nil {
		return err
	}

	s.sendVerificationEmail(ctx, email, verificationToken)
	return nil
}

// RequestPasswordReset stores a reset token and emails the reset link.
// The token is persisted before the email is dispatched.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		return fmt.Errorf("find by email: %w", err)
	}

	resetToken, err := token.NewOneTime()
	if err != nil {
		return err
	}
	if err := s.repo.SetResetToken(ctx, user.ID, resetToken, time.Now().Add(s.cfg.ResetTTL)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/v1/auth/reset-password?token=%s", s.cfg.BaseURL, resetToken)
	if err := s.mailer.SendPasswordReset(ctx, email, link); err != nil {
		s.logger.Warn("send password reset email", slog.Any("error", err))
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the password. The token
// fields are cleared in the same update, so a second use fails.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	user, err := s.repo.FindByResetToken(ctx, resetToken, time.Now())
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired password reset token", httpx.ErrValidation)
		}
		return fmt.Errorf("find by reset token: %w", err)
	}

	hash, err := HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	return s.repo.ResetPassword(ctx, user.ID, hash)
}

// Login validates credentials and issues a session token. Unknown email and
// wrong password produce the same generic error to avoid user enumeration.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("find by email: %w", err)
	}

	if !user.IsVerified {
		return nil, "", fmt.Errorf("%w: please verify your email to log in", httpx.ErrForbidden)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}

	session, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, session, nil
}

func (s *Service) sendVerificationEmail(ctx context.Context, email, verificationToken string) {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.cfg.BaseURL, verificationToken)
	if err := s.mailer.SendVerification(ctx, email, link); err != nil {
		s.logger.Warn("send verification email", slog.Any("error", err))
	}
}
