package domain

import "time"

// CycleFilter narrows cycle listings. Zero values are ignored.
type CycleFilter struct {
	Status         CycleStatus
	Phase          CyclePhase
	OrganizationID *int64
	Limit          int
	Offset         int
}

// GroupFilter narrows group listings. Zero values are ignored.
type GroupFilter struct {
	CycleID *int64
	Status  GroupStatus
	Village string
	Limit   int
	Offset  int
}

// TransactionFilter narrows a group's ledger listing. After is the keyset
// position (created_at, id) of the previous page's last row.
type TransactionFilter struct {
	Type      TransactionType
	Status    TransactionStatus
	UserID    *int64
	Limit     int
	AfterTime *time.Time
	AfterID   *int64
}
