package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/orgspace-auth/internal/domain"
	"github.com/smallbiznis/orgspace-auth/internal/service"
	"github.com/smallbiznis/orgspace-auth/internal/validation"
)

func newOrgService(t *testing.T, orgs *memoryOrgRepo, users *memoryUserRepo) *service.OrgService {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	return service.NewOrgService(orgs, users, nil, node, zap.NewNop())
}

func seedOrgFixture(users *memoryUserRepo, orgs *memoryOrgRepo) (creator, member, stranger domain.User, org domain.Organisation) {
	creator = domain.User{ID: "creator", FirstName: "Ada", Email: "ada@example.com"}
	member = domain.User{ID: "member", FirstName: "Ben", Email: "ben@example.com"}
	stranger = domain.User{ID: "stranger", FirstName: "Cal", Email: "cal@example.com"}
	users.add(creator)
	users.add(member)
	users.add(stranger)

	org = domain.Organisation{
		ID:        "org-1",
		Name:      "Ada's Organisation",
		CreatorID: creator.ID,
		MemberIDs: []string{creator.ID, member.ID},
	}
	orgs.add(org)
	return
}

func TestOrgGet(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	creator, member, _, org := seedOrgFixture(users, orgs)

	got, err := svc.Get(context.Background(), creator, org.ID)
	require.NoError(t, err)
	require.Equal(t, org.Name, got.Name)

	got, err = svc.Get(context.Background(), member, org.ID)
	require.NoError(t, err)
	require.Equal(t, org.ID, got.ID)
}

func TestOrgGetForbiddenForStranger(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	_, _, stranger, org := seedOrgFixture(users, orgs)

	_, err := svc.Get(context.Background(), stranger, org.ID)
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusForbidden, svcErr.Code)
}

func TestOrgGetNotFoundBeforeAuthz(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	creator, _, stranger, _ := seedOrgFixture(users, orgs)

	// A missing org is 404 for everyone; authorization is never consulted
	// against a nonexistent resource.
	for _, requester := range []domain.User{creator, stranger} {
		_, err := svc.Get(context.Background(), requester, "no-such-org")
		var svcErr *service.Error
		require.ErrorAs(t, err, &svcErr)
		require.Equal(t, http.StatusNotFound, svcErr.Code)
	}
}

func TestOrgCreate(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	creator, _, _, _ := seedOrgFixture(users, orgs)

	org, err := svc.Create(context.Background(), creator, validation.OrganisationInput{Name: "Side Project", Description: "scratch space"})
	require.NoError(t, err)
	require.Equal(t, creator.ID, org.CreatorID)
	require.Equal(t, []string{creator.ID}, org.MemberIDs)
	require.Equal(t, "scratch space", org.Description)
}

func TestOrgCreateValidation(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)

	_, err := svc.Create(context.Background(), domain.User{ID: "u"}, validation.OrganisationInput{Description: 12})
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Fields, 2)
}

func TestOrgList(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	creator, _, stranger, _ := seedOrgFixture(users, orgs)

	listed, err := svc.List(context.Background(), creator)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed, err = svc.List(context.Background(), stranger)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestAddMember(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	creator, _, stranger, org := seedOrgFixture(users, orgs)

	require.NoError(t, svc.AddMember(context.Background(), creator, org.ID, stranger.ID))

	updated, err := orgs.GetByID(context.Background(), org.ID)
	require.NoError(t, err)
	require.True(t, updated.HasMember(stranger.ID))

	// Re-adding is a no-op.
	require.NoError(t, svc.AddMember(context.Background(), creator, org.ID, stranger.ID))
}

func TestAddMemberOnlyCreator(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	_, member, stranger, org := seedOrgFixture(users, orgs)

	err := svc.AddMember(context.Background(), member, org.ID, stranger.ID)
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusForbidden, svcErr.Code)
}

func TestAddMemberEdgeCases(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newOrgService(t, orgs, users)
	creator, _, stranger, org := seedOrgFixture(users, orgs)

	var svcErr *service.Error

	err := svc.AddMember(context.Background(), creator, org.ID, "  ")
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusBadRequest, svcErr.Code)

	err = svc.AddMember(context.Background(), stranger, "no-such-org", creator.ID)
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusNotFound, svcErr.Code)

	err = svc.AddMember(context.Background(), creator, org.ID, "no-such-user")
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusNotFound, svcErr.Code)
}
