// Package authz holds the pure access decisions. Every function takes an
// authenticated identity plus a point-in-time resource snapshot and returns
// allow/deny without touching I/O; existence checks (404) happen before these
// rules are consulted so denial reasons never leak whether a resource exists.
package authz

import "github.com/smallbiznis/orgspace-auth/internal/domain"

// CanReadOrganisation allows the creator and every member.
func CanReadOrganisation(userID string, org domain.Organisation) bool {
	return userID == org.CreatorID || org.HasMember(userID)
}

// CanManageMembers allows only the creator to change membership.
func CanManageMembers(userID string, org domain.Organisation) bool {
	return userID == org.CreatorID
}

// CanReadUser allows any authenticated requester to read any user profile.
// Inherited behaviour; deliberately left as-is.
func CanReadUser(requesterID, targetUserID string) bool {
	return requesterID != ""
}
