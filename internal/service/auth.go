package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/auth"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/notify"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = time.Hour

// ForgotPasswordMessage is returned by ForgotPassword whether or not the
// email matched an account.
const ForgotPasswordMessage = "If the email is registered, a password reset link has been sent"

const (
	msgInvalidCredentials = "invalid credentials"
	msgInvalidToken       = "invalid token"
)

// AuthService implements registration, login and the token lifecycle.
type AuthService struct {
	users      docstore.Store[domain.User]
	jwtManager *auth.JWTManager
	producer   event.Publisher
	notifier   notify.Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users docstore.Store[domain.User],
	jwtManager *auth.JWTManager,
	producer event.Publisher,
	notifier notify.Notifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		producer:   producer,
		notifier:   notifier,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	BusinessID string
	UserName   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	Address    string
}

// LoginInput holds the credentials of a login. Login is a user name or an
// email address.
type LoginInput struct {
	Login    string
	Password string
}

// AuthResult is an authenticated user with a fresh token pair.
type AuthResult struct {
	User   *domain.User
	Tokens *auth.TokenPair
}

// notDeleted matches users that were not soft deleted.
func notDeleted() docstore.Filter {
	return docstore.Eq(domain.FieldIsDelete, false)
}

// activeUsers matches users allowed to authenticate.
func activeUsers(f docstore.Filter) docstore.Filter {
	return docstore.And(f, notDeleted(), docstore.Eq(domain.FieldIsActive, true))
}

// Register creates an active account and issues its first token pair.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.UserName == "" {
		return nil, apperrors.InvalidInput("user_name is required")
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.checkIdentityFree(ctx, input.UserName, input.Email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &domain.User{
		BusinessID: input.BusinessID,
		UserName:   input.UserName,
		Email:      input.Email,
		Phone:      input.Phone,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Address:    input.Address,
		Password:   hash,
		IsActive:   true,
	}
	user.Fullname = strings.TrimSpace(input.FirstName + " " + input.LastName)

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	result, err := s.issueTokens(ctx, created, docstore.Update{})
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishUserRegistered(ctx, result.User); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", created.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", created.ID),
		slog.String("user_name", created.UserName),
	)
	return result, nil
}

// checkIdentityFree fails with a conflict when the user name or email is
// taken by another non-deleted user. exceptID skips the user being updated.
func (s *AuthService) checkIdentityFree(ctx context.Context, userName, email, exceptID string) error {
	return checkIdentityFree(ctx, s.users, userName, email, exceptID)
}

func checkIdentityFree(ctx context.Context, users docstore.Store[domain.User], userName, email, exceptID string) error {
	var keys []docstore.Filter
	if userName != "" {
		keys = append(keys, docstore.Eq(domain.UserFieldUserName, userName))
	}
	if email != "" {
		keys = append(keys, docstore.Eq(domain.UserFieldEmail, email))
	}
	if len(keys) == 0 {
		return nil
	}
	f := docstore.And(docstore.Or(keys...), notDeleted())
	if exceptID != "" {
		f = docstore.And(f, docstore.Ne(docstore.FieldID, exceptID))
	}
	exists, err := users.Exists(ctx, f)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return apperrors.Conflict("User already exists")
	}
	return nil
}

// Login verifies credentials and issues a new token pair, replacing the
// stored session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" || input.Password == "" {
		return nil, apperrors.InvalidInput("login and password are required")
	}

	user, err := s.users.FindOne(ctx, activeUsers(docstore.Or(
		docstore.Eq(domain.UserFieldUserName, login),
		docstore.Eq(domain.UserFieldEmail, strings.ToLower(login)),
	)), docstore.Projection{})
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.Unauthorized(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.Password, input.Password) {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	result, err := s.issueTokens(ctx, user, docstore.Set(domain.UserFieldLastLoginAt, s.now()))
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("user_name", user.UserName),
	)
	return result, nil
}

// RefreshToken exchanges a refresh token of the current session for a new
// pair. Every failure is reported as the same unauthorized error.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}

	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.Unauthorized(msgInvalidToken)
		}
		return nil, err
	}
	if user.SessionID == "" || user.SessionID != claims.SessionID {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}

	return s.issueTokens(ctx, user, docstore.Update{})
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return apperrors.NotFound("user", userID)
		}
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return apperrors.Unauthorized("current password is incorrect")
	}

	if err := s.setPassword(ctx, user.ID, newPassword, docstore.Update{}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", user.ID))
	return nil
}

// ForgotPassword starts a password reset for the account registered with
// email. The returned message does not reveal whether the email matched.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", apperrors.InvalidInput("email is required")
	}

	user, err := s.users.FindOne(ctx,
		activeUsers(docstore.Eq(domain.UserFieldEmail, email)),
		docstore.Exclude(domain.UserFieldPassword),
	)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return ForgotPasswordMessage, nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return "", apperrors.Internal(err)
	}
	expires := s.now().Add(ResetTokenTTL)

	reset := docstore.Set(domain.UserFieldResetPasswordToken, hash).
		Set(domain.UserFieldResetPasswordExpires, expires)
	if _, err := s.users.UpdateOne(ctx, docstore.ID(user.ID), reset); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	err = s.notifier.SendPasswordReset(ctx, notify.PasswordReset{
		UserID:    user.ID,
		UserName:  user.UserName,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expires,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to deliver password reset token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password reset requested", slog.String("user_id", user.ID))
	return ForgotPasswordMessage, nil
}

// ResetPassword sets a new password for the holder of a valid reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.InvalidInput("token is required")
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	user, err := s.users.FindOne(ctx, docstore.And(
		docstore.Eq(domain.UserFieldResetPasswordToken, auth.HashToken(token)),
		notDeleted(),
	), docstore.Projection{})
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return apperrors.InvalidInput("invalid or expired reset token")
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.ResetPasswordExpires == nil || !s.now().Before(*user.ResetPasswordExpires) {
		return apperrors.InvalidInput("invalid or expired reset token")
	}

	cleared := docstore.Set(domain.UserFieldResetPasswordToken, "").
		Set(domain.UserFieldResetPasswordExpires, nil)
	if err := s.setPassword(ctx, user.ID, newPassword, cleared); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset", slog.String("user_id", user.ID))
	return nil
}

// Logout clears the stored token and session so ValidateToken and
// RefreshToken reject the current pair.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	revoke := docstore.Set(domain.UserFieldToken, "").
		Set(domain.UserFieldSessionID, "").
		Set(domain.UserFieldTokenExpiredAt, nil)
	if _, err := s.users.UpdateOne(ctx, docstore.ID(userID), revoke); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return apperrors.NotFound("user", userID)
		}
		return fmt.Errorf("clear session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID))
	return nil
}

// ValidateToken verifies an access token and returns its user. The token
// must be the last one issued to that user.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}

	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.Unauthorized(msgInvalidToken)
		}
		return nil, err
	}
	if user.Token == "" || user.Token != auth.HashToken(token) {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}
	return user, nil
}

// Profile returns the active user with the given id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin makes sure an admin account named userName exists. An
// existing user is promoted; otherwise one is created with password and
// flagged as using a default password. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, userName, password string) (bool, error) {
	existing, err := s.users.FindOne(ctx,
		docstore.And(docstore.Eq(domain.UserFieldUserName, userName), notDeleted()),
		docstore.Include(domain.UserFieldIsAdmin),
	)
	switch {
	case err == nil:
		if existing.IsAdmin {
			return false, nil
		}
		if _, err := s.users.UpdateOne(ctx, docstore.ID(existing.ID), docstore.Set(domain.UserFieldIsAdmin, true)); err != nil {
			return false, fmt.Errorf("promote admin: %w", err)
		}
		s.logger.InfoContext(ctx, "existing user promoted to admin", slog.String("user_id", existing.ID))
		return false, nil
	case !errors.Is(err, docstore.ErrNoDocument):
		return false, fmt.Errorf("find admin: %w", err)
	}

	if err := auth.ValidatePassword(password); err != nil {
		return false, fmt.Errorf("admin password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	created, err := s.users.Insert(ctx, &domain.User{
		UserName:  userName,
		Fullname:  userName,
		Password:  hash,
		IsAdmin:   true,
		IsActive:  true,
		DefaultPW: true,
	})
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin user created", slog.String("user_id", created.ID))
	return true, nil
}

func (s *AuthService) activeUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, docstore.ErrNoDocument
	}
	user, err := s.users.FindOne(ctx, activeUsers(docstore.ID(id)), docstore.Projection{})
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// issueTokens generates a pair for user and stores the access token hash,
// session id and expiry along with extra.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, extra docstore.Update) (*AuthResult, error) {
	pair, err := s.jwtManager.GeneratePair(auth.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	u := extra.
		Set(domain.UserFieldToken, auth.HashToken(pair.AccessToken)).
		Set(domain.UserFieldSessionID, pair.SessionID).
		Set(domain.UserFieldTokenExpiredAt, pair.AccessExpiresAt)
	updated, err := s.users.UpdateOne(ctx, docstore.ID(user.ID), u)
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &AuthResult{User: updated, Tokens: pair}, nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string, extra docstore.Update) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.Internal(err)
	}
	u := extra.
		Set(domain.UserFieldPassword, hash).
		Set(domain.UserFieldDefaultPW, false)
	if _, err := s.users.UpdateOne(ctx, docstore.ID(userID), u); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
