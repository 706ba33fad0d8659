package models

// Group is an organizational unit users belong to.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount *int   `json:"memberCount,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
