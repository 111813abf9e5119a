package dto

// TransactionStatsParams selects the window and optional group for ledger statistics.
type TransactionStatsParams struct {
	Period  string `form:"period,default=month" binding:"oneof=week month year"`
	GroupID *int64 `form:"groupID"`
}
