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

	"github.com/smallbiznis/orgspace-auth/internal/adapter/cache"
	"github.com/smallbiznis/orgspace-auth/internal/authz"
	"github.com/smallbiznis/orgspace-auth/internal/domain"
	"github.com/smallbiznis/orgspace-auth/internal/repository"
	"github.com/smallbiznis/orgspace-auth/internal/validation"
)

// OrgService handles organisation retrieval, creation, and membership.
type OrgService struct {
	orgs      repository.OrgRepository
	users     repository.UserRepository
	cache     *cache.OrgCache
	snowflake *snowflake.Node
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewOrgService wires dependencies. The cache may be nil.
func NewOrgService(orgs repository.OrgRepository, users repository.UserRepository, orgCache *cache.OrgCache, node *snowflake.Node, logger *zap.Logger) *OrgService {
	return &OrgService{
		orgs:      orgs,
		users:     users,
		cache:     orgCache,
		snowflake: node,
		logger:    logger,
		tracer:    otel.Tracer("github.com/smallbiznis/orgspace-auth/internal/service"),
	}
}

// Get returns an organisation the requester created or belongs to. Absence is
// reported before the access decision is made.
func (s *OrgService) Get(ctx context.Context, requester domain.User, orgID string) (domain.Organisation, error) {
	ctx, span := s.startSpan(ctx, "OrgService.Get")
	defer span.End()

	org, err := s.loadOrg(ctx, orgID)
	if err != nil {
		return domain.Organisation{}, err
	}

	if !authz.CanReadOrganisation(requester.ID, org) {
		return domain.Organisation{}, errForbidden()
	}
	return org, nil
}

// List returns every organisation the requester created or is a member of.
func (s *OrgService) List(ctx context.Context, requester domain.User) ([]domain.Organisation, error) {
	ctx, span := s.startSpan(ctx, "OrgService.List")
	defer span.End()

	orgs, err := s.orgs.ListForUser(ctx, requester.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	return orgs, nil
}

// Create makes a new organisation with the requester as creator and sole
// member.
func (s *OrgService) Create(ctx context.Context, requester domain.User, in validation.OrganisationInput) (domain.Organisation, error) {
	ctx, span := s.startSpan(ctx, "OrgService.Create")
	defer span.End()

	if errs := validation.ValidateOrganisation(in); len(errs) > 0 {
		return domain.Organisation{}, &ValidationError{Fields: errs}
	}

	org := domain.Organisation{
		ID:          s.snowflake.Generate().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.DescriptionText(),
		CreatorID:   requester.ID,
		CreatedAt:   time.Now().UTC(),
	}

	org, err := s.orgs.CreateWithCreator(ctx, org)
	if err != nil {
		span.RecordError(err)
		return domain.Organisation{}, fmt.Errorf("create org: %w", err)
	}

	s.logger.Info("organisation created", zap.String("org_id", org.ID), zap.String("creator_id", requester.ID))
	return org, nil
}

// AddMember adds a user to the organisation. Only the creator may do this,
// and only after the organisation is known to exist. Re-adding an existing
// member is a no-op.
func (s *OrgService) AddMember(ctx context.Context, requester domain.User, orgID, userID string) error {
	ctx, span := s.startSpan(ctx, "OrgService.AddMember")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return errClientError()
	}

	// Membership writes always read the repository directly; a cached
	// snapshot could be stale on the creator check.
	org, err := s.orgs.GetByID(ctx, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return errOrgNotFound()
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("add member lookup org: %w", err)
	}

	if !authz.CanManageMembers(requester.ID, org) {
		return errForbidden()
	}

	if _, err := s.users.GetByID(ctx, userID); errors.Is(err, repository.ErrNotFound) {
		return errUserNotFound()
	} else if err != nil {
		span.RecordError(err)
		return fmt.Errorf("add member lookup user: %w", err)
	}

	if err := s.orgs.AddMember(ctx, orgID, userID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("add member: %w", err)
	}

	if err := s.cache.Invalidate(ctx, orgID); err != nil {
		s.logger.Warn("org cache invalidate failed", zap.String("org_id", orgID), zap.Error(err))
	}

	s.logger.Info("member added", zap.String("org_id", orgID), zap.String("user_id", userID))
	return nil
}

func (s *OrgService) loadOrg(ctx context.Context, orgID string) (domain.Organisation, error) {
	if org, ok, err := s.cache.Get(ctx, orgID); err != nil {
		s.logger.Warn("org cache read failed", zap.String("org_id", orgID), zap.Error(err))
	} else if ok {
		return org, nil
	}

	org, err := s.orgs.GetByID(ctx, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Organisation{}, errOrgNotFound()
	}
	if err != nil {
		return domain.Organisation{}, fmt.Errorf("get org: %w", err)
	}

	if err := s.cache.Set(ctx, org); err != nil {
		s.logger.Warn("org cache write failed", zap.String("org_id", orgID), zap.Error(err))
	}
	return org, nil
}

func (s *OrgService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}
