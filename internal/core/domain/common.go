package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	CreatedBy     int64     `json:"createdBy" db:"created_by"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt" db:"last_updated_at"`
	LastUpdatedBy int64     `json:"lastUpdatedBy" db:"last_updated_by"` // UserID Reference
}

// NewAuditFields stamps both created and updated fields with the same actor and time.
func NewAuditFields(userID int64, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// Touch records an update by userID at now.
func (a *AuditFields) Touch(userID int64, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}
