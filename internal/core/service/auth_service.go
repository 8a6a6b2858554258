package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/clubcore/members-system/internal/api/metrics"
	"github.com/clubcore/members-system/internal/core/domain"
	"github.com/clubcore/members-system/internal/core/ports"
	"github.com/clubcore/members-system/pkg/password"
)

// AuthService implements the authentication state machine: signup, login,
// logout, session-gated authorization, and admin role changes.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	hasher   *password.Hasher
	throttle ports.LoginThrottle
	events   ports.EventSink
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAuthService wires the state machine. throttle and events may be nil,
// which disables login throttling and the audit trail respectively.
func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	hasher *password.Hasher,
	throttle ports.LoginThrottle,
	events ports.EventSink,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		throttle: throttle,
		events:   events,
		validate: validator.New(),
		logger:   logger,
	}
}

type signupInput struct {
	Name     string `validate:"required,max=20"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=3"`
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Signup validates the input, creates the user with role "user", and
// establishes an authenticated session.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	if err := s.checkShape(signupInput{Name: name, Email: email, Password: password}); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.SignupsTotal.Inc()
	s.emit(domain.AuthEvent{Type: domain.EventSignup, Subject: email})
	s.logger.Info().Str("email", email).Msg("user registered")

	return &ports.AuthResult{Token: token, Username: user.Name, Role: user.Role}, nil
}

// Login verifies the credentials and establishes a session seeded from the
// stored record. Unknown email and wrong password both surface
// ErrInvalidCredentials: the caller cannot tell which field was wrong.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*ports.AuthResult, error) {
	if err := s.checkShape(loginInput{Email: email, Password: plaintext}); err != nil {
		return nil, err
	}

	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, email)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.failLogin(ctx, email)
		}
		return nil, err
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, s.failLogin(ctx, email)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			// Connectivity trouble on the happy path is not worth failing
			// an otherwise valid login over.
			s.logger.Warn().Err(err).Msg("throttle reset failed")
		}
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.emit(domain.AuthEvent{Type: domain.EventLoginSuccess, Subject: email})

	return &ports.AuthResult{Token: token, Username: user.Name, Role: user.Role}, nil
}

// Logout destroys the session. Idempotent: an empty or already-gone token is
// not an error, and the state afterwards is Anonymous either way.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sess, err := s.sessions.Load(ctx, token)
	if err != nil {
		return err
	}

	if err := s.sessions.Destroy(ctx, token); err != nil {
		return err
	}

	if sess != nil {
		metrics.SessionsDestroyedTotal.Inc()
		s.emit(domain.AuthEvent{Type: domain.EventLogout, Subject: sess.Username})
	}
	return nil
}

// Authorize checks the current session against the required role and, on
// success, refreshes its TTL ("resave" on every request). The role check
// uses the role cached in the session at login time: a role change after
// login is not visible until the user logs in again.
func (s *AuthService) Authorize(ctx context.Context, token, requiredRole string) (*domain.Session, error) {
	if token == "" {
		metrics.AuthzDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.Authenticated {
		metrics.AuthzDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return nil, domain.ErrUnauthenticated
	}

	if requiredRole == domain.RoleAdmin && sess.Role != domain.RoleAdmin {
		metrics.AuthzDeniedTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	if err := s.sessions.Touch(ctx, token); err != nil {
		return nil, err
	}
	return sess, nil
}

// Promote sets the target user's role to admin. The caller must already
// hold an admin session. Sessions issued to the target before the change
// keep their cached role until the next login.
func (s *AuthService) Promote(ctx context.Context, actor, targetID string) error {
	return s.setRole(ctx, actor, targetID, domain.RoleAdmin)
}

// Demote sets the target user's role back to user. Demoting a user who is
// already a plain user is a no-op, not an error.
func (s *AuthService) Demote(ctx context.Context, actor, targetID string) error {
	return s.setRole(ctx, actor, targetID, domain.RoleUser)
}

// ListUsers returns every user record for the admin panel.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListAll(ctx)
}

func (s *AuthService) setRole(ctx context.Context, actor, targetID, role string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.users.SetRole(ctx, targetID, role); err != nil {
		return err
	}

	direction := "promote"
	eventType := domain.EventPromote
	if role == domain.RoleUser {
		direction = "demote"
		eventType = domain.EventDemote
	}
	metrics.RoleChangesTotal.WithLabelValues(direction).Inc()
	s.emit(domain.AuthEvent{Type: eventType, Subject: target.Email, Actor: actor})
	s.logger.Info().Str("target", target.Email).Str("role", role).Msg("role changed")

	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.sessions.Create(ctx, domain.Session{
		Authenticated: true,
		Username:      user.Name,
		Role:          user.Role,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

func (s *AuthService) failLogin(ctx context.Context, email string) error {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("throttle record failed")
		}
	}
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.emit(domain.AuthEvent{Type: domain.EventLoginFailure, Subject: email})
	return domain.ErrInvalidCredentials
}

func (s *AuthService) emit(event domain.AuthEvent) {
	if s.events == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.events.Enqueue(event)
}

// checkShape runs struct-tag validation and converts the first violation
// into a domain.ValidationError with a field-specific message.
func (s *AuthService) checkShape(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}

	fe := ve[0]
	field := strings.ToLower(fe.Field())
	return &domain.ValidationError{Field: field, Message: fieldMessage(field, fe)}
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
