package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/orgspace-auth/internal/domain"
	"github.com/smallbiznis/orgspace-auth/internal/repository"
	"github.com/smallbiznis/orgspace-auth/internal/service"
	"github.com/smallbiznis/orgspace-auth/internal/token"
	"github.com/smallbiznis/orgspace-auth/internal/validation"
)

func newAuthService(t *testing.T, users *memoryUserRepo, orgs *memoryOrgRepo) *service.AuthService {
	t.Helper()
	users.orgs = orgs
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	tokens := token.NewService("test-secret", time.Hour)
	return service.NewAuthService(users, orgs, tokens, node, zap.NewNop())
}

func johnRegistration() validation.RegistrationInput {
	return validation.RegistrationInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@doe.com",
		Password:  "testPassword",
	}
}

func TestRegisterCreatesDefaultOrganisation(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	result, err := svc.Register(context.Background(), johnRegistration())
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, "John's Organisation", result.Organisation.Name)
	require.Equal(t, result.User.ID, result.Organisation.CreatorID)
	require.Equal(t, []string{result.User.ID}, result.Organisation.MemberIDs)
	require.NotEqual(t, "testPassword", result.User.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	_, err := svc.Register(context.Background(), johnRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), johnRegistration())
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusUnprocessableEntity, svcErr.Code)
	require.Equal(t, "Registration unsuccessful Email already exists", svcErr.Message)
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newAuthService(t, newMemoryUserRepo(), newMemoryOrgRepo())

	_, err := svc.Register(context.Background(), validation.RegistrationInput{Email: "a@b.c"})
	var valErr *service.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Fields, 3)
}

func TestLogin(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	registered, err := svc.Register(context.Background(), johnRegistration())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), validation.LoginInput{Email: "John@Doe.com", Password: "testPassword"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, registered.User.ID, result.User.ID)
	require.Len(t, result.Organisations, 1)
	require.Equal(t, "John's Organisation", result.Organisations[0].Name)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	_, err := svc.Register(context.Background(), johnRegistration())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), validation.LoginInput{Email: "john@doe.com", Password: "wrong"})
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusUnauthorized, svcErr.Code)
	require.Equal(t, "Authentication failed", svcErr.Message)
}

func TestLoginUnknownEmailSameFailure(t *testing.T) {
	svc := newAuthService(t, newMemoryUserRepo(), newMemoryOrgRepo())

	_, err := svc.Login(context.Background(), validation.LoginInput{Email: "nobody@example.com", Password: "pw"})
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, "Authentication failed", svcErr.Message)
}

func TestAuthenticate(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	registered, err := svc.Register(context.Background(), johnRegistration())
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "Bearer "+registered.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, registered.User.ID, user.ID)
}

func TestAuthenticateNoIdentity(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	for _, header := range []string{"", "Bearer", "Bearer not-a-token", "Basic abc", "garbage"} {
		user, err := svc.Authenticate(context.Background(), header)
		require.NoError(t, err, "header %q", header)
		require.Nil(t, user, "header %q", header)
	}
}

func TestAuthenticateVanishedUser(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	registered, err := svc.Register(context.Background(), johnRegistration())
	require.NoError(t, err)

	delete(users.byID, registered.User.ID)

	user, err := svc.Authenticate(context.Background(), "Bearer "+registered.AccessToken)
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestGetUser(t *testing.T) {
	users := newMemoryUserRepo()
	orgs := newMemoryOrgRepo()
	svc := newAuthService(t, users, orgs)

	registered, err := svc.Register(context.Background(), johnRegistration())
	require.NoError(t, err)

	other := domain.User{ID: "other", FirstName: "Jane", Email: "jane@doe.com"}
	users.add(other)

	// Any authenticated requester may read any profile.
	got, err := svc.GetUser(context.Background(), other, registered.User.ID)
	require.NoError(t, err)
	require.Equal(t, registered.User.Email, got.Email)

	_, err = svc.GetUser(context.Background(), other, "missing")
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusNotFound, svcErr.Code)
}

// In-memory fakes shared by the service tests.

type memoryUserRepo struct {
	byID    map[string]domain.User
	byEmail map[string]domain.User
	orgs    *memoryOrgRepo
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]domain.User),
	}
}

func (m *memoryUserRepo) add(u domain.User) {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, userID string) (domain.User, error) {
	u, ok := m.byID[userID]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memoryUserRepo) CreateWithDefaultOrg(ctx context.Context, user domain.User, org domain.Organisation) (domain.User, domain.Organisation, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return domain.User{}, domain.Organisation{}, repository.ErrEmailTaken
	}
	m.add(user)
	org.MemberIDs = []string{user.ID}
	if m.orgs != nil {
		m.orgs.add(org)
	}
	return user, org, nil
}

type memoryOrgRepo struct {
	byID map[string]domain.Organisation
}

func newMemoryOrgRepo() *memoryOrgRepo {
	return &memoryOrgRepo{byID: make(map[string]domain.Organisation)}
}

func (m *memoryOrgRepo) add(org domain.Organisation) {
	m.byID[org.ID] = org
}

func (m *memoryOrgRepo) GetByID(ctx context.Context, orgID string) (domain.Organisation, error) {
	org, ok := m.byID[orgID]
	if !ok {
		return domain.Organisation{}, repository.ErrNotFound
	}
	return org, nil
}

func (m *memoryOrgRepo) CreateWithCreator(ctx context.Context, org domain.Organisation) (domain.Organisation, error) {
	org.MemberIDs = []string{org.CreatorID}
	m.add(org)
	return org, nil
}

func (m *memoryOrgRepo) AddMember(ctx context.Context, orgID, userID string) error {
	org, ok := m.byID[orgID]
	if !ok {
		return repository.ErrNotFound
	}
	if !org.HasMember(userID) {
		org.MemberIDs = append(org.MemberIDs, userID)
	}
	m.byID[orgID] = org
	return nil
}

func (m *memoryOrgRepo) ListForUser(ctx context.Context, userID string) ([]domain.Organisation, error) {
	var orgs []domain.Organisation
	for _, org := range m.byID {
		if org.CreatorID == userID || org.HasMember(userID) {
			orgs = append(orgs, org)
		}
	}
	return orgs, nil
}
