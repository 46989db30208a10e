package domain

import "time"

// Organisation is a group of users. The creator is recorded once at creation
// and is always present in MemberIDs.
type Organisation struct {
	ID          string
	Name        string
	Description string
	CreatorID   string
	MemberIDs   []string
	CreatedAt   time.Time
}

// HasMember reports whether userID appears in the membership set.
func (o Organisation) HasMember(userID string) bool {
	for _, id := range o.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
