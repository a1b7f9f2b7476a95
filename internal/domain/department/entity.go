package department

import "time"

// Department entity
type Department struct {
	ID     string
	Name   string
	HeadID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	HeadName    *string
	MemberCount int64
}
