package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/smallbiznis/orgspace-auth/internal/authz"
	"github.com/smallbiznis/orgspace-auth/internal/domain"
	pw "github.com/smallbiznis/orgspace-auth/internal/password"
	"github.com/smallbiznis/orgspace-auth/internal/repository"
	"github.com/smallbiznis/orgspace-auth/internal/token"
	"github.com/smallbiznis/orgspace-auth/internal/validation"
)

// AuthService handles registration, login, and request authentication.
type AuthService struct {
	users     repository.UserRepository
	orgs      repository.OrgRepository
	tokens    *token.Service
	snowflake *snowflake.Node
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, orgs repository.OrgRepository, tokens *token.Service, node *snowflake.Node, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		orgs:      orgs,
		tokens:    tokens,
		snowflake: node,
		logger:    logger,
		tracer:    otel.Tracer("github.com/smallbiznis/orgspace-auth/internal/service"),
	}
}

// Register creates the user and their default organisation in one
// transaction and issues an access token.
func (s *AuthService) Register(ctx context.Context, in validation.RegistrationInput) (*RegisterResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	if errs := validation.ValidateRegistration(in); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	hash, err := pw.Hash(in.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("register hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.snowflake.Generate().String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    now,
	}
	org := domain.Organisation{
		ID:          s.snowflake.Generate().String(),
		Name:        fmt.Sprintf("%s's Organisation", user.FirstName),
		Description: "Default organisation",
		CreatorID:   user.ID,
		CreatedAt:   now,
	}

	user, org, err = s.users.CreateWithDefaultOrg(ctx, user, org)
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil, errEmailTaken()
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("register create user: %w", err)
	}

	accessToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("register issue token: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("org_id", org.ID))
	return &RegisterResult{AccessToken: accessToken, User: user, Organisation: org}, nil
}

// Login verifies the credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*LoginResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	if errs := validation.ValidateLogin(in); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errAuthFailed()
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("login lookup user: %w", err)
	}

	if !pw.Verify(in.Password, user.PasswordHash) {
		return nil, errAuthFailed()
	}

	orgs, err := s.orgs.ListForUser(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("login list orgs: %w", err)
	}

	accessToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("login issue token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{AccessToken: accessToken, User: user, Organisations: orgs}, nil
}

// Authenticate resolves the Authorization header to a user. A missing or
// malformed header, an invalid or expired token, and a vanished user all come
// back as (nil, nil): authentication failure is never an error here, only
// infrastructure trouble is.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*domain.User, error) {
	parts := strings.SplitN(strings.TrimSpace(authorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, nil
	}

	claims, err := s.tokens.Verify(parts[1])
	if errors.Is(err, token.ErrInvalidToken) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate verify token: %w", err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate lookup user: %w", err)
	}
	return &user, nil
}

// GetUser returns the target user's profile. Existence is checked before the
// access rule so the two denial paths stay distinct.
func (s *AuthService) GetUser(ctx context.Context, requester domain.User, userID string) (domain.User, error) {
	ctx, span := s.startSpan(ctx, "AuthService.GetUser")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, errUserNotFound()
	}
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	if !authz.CanReadUser(requester.ID, user.ID) {
		return domain.User{}, errForbidden()
	}
	return user, nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
