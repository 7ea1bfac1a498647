package api

// Account is the wire representation of a configured seller account.
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// GenerateReportResponse is returned once a report run has completed and the
// artifact has been persisted.
type GenerateReportResponse struct {
	Artifact    string      `json:"artifact"`
	Account     string      `json:"account"`
	Period      string      `json:"period"`
	RowsFetched int         `json:"rows_fetched"`
	RowsKept    int         `json:"rows_kept"`
	Table       []TableRow  `json:"table"`
	Total       TableTotals `json:"total"`
}

// TableRow is one region row of the summary table.
type TableRow struct {
	Region  string `json:"region"`
	Revenue string `json:"revenue"`
	Tax     string `json:"tax"`
}

// TableTotals mirrors the Total row of the summary table.
type TableTotals struct {
	Revenue string `json:"revenue"`
	Tax     string `json:"tax"`
}

// ReportRun is one historical run record.
type ReportRun struct {
	Account     string `json:"account"`
	Period      string `json:"period"`
	Artifact    string `json:"artifact"`
	RowsFetched int64  `json:"rows_fetched"`
	RowsKept    int64  `json:"rows_kept"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Error is the generic error envelope.
type Error struct {
	Message string `json:"message"`
}
