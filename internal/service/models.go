package service

import "github.com/smallbiznis/orgspace-auth/internal/domain"

// UserView is the user profile shape returned to clients. The password hash
// never appears here.
type UserView struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// OrgView is the organisation shape returned to clients.
type OrgView struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RegisterResult bundles everything the registration response needs.
type RegisterResult struct {
	AccessToken  string
	User         domain.User
	Organisation domain.Organisation
}

// LoginResult bundles the login response payload.
type LoginResult struct {
	AccessToken   string
	User          domain.User
	Organisations []domain.Organisation
}

// NewUserView maps a domain user onto the client shape.
func NewUserView(u domain.User) UserView {
	return UserView{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}

// NewOrgView maps a domain organisation onto the client shape.
func NewOrgView(o domain.Organisation) OrgView {
	return OrgView{
		OrgID:       o.ID,
		Name:        o.Name,
		Description: o.Description,
	}
}

// NewOrgViews maps a slice of organisations.
func NewOrgViews(orgs []domain.Organisation) []OrgView {
	views := make([]OrgView, 0, len(orgs))
	for _, o := range orgs {
		views = append(views, NewOrgView(o))
	}
	return views
}
