package domain

// Report summarises one calendar day of charge deliveries plus the total
// amount still pending across all customers.
type Report struct {
	Total        int     `json:"total"`
	Success      int     `json:"success"`
	Failure      int     `json:"failure"`
	PendingTotal float64 `json:"pending_total"`
}
