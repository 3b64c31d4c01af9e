package domain

// DashboardStats is a read-only rollup over the stored collections.
// TotalUsers comes from the identity side, never computed from raffles.
type DashboardStats struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	ActiveRaffles int     `json:"activeRaffles"`
	TicketsSold   int     `json:"ticketsSold"`
	TotalUsers    int     `json:"totalUsers"`
}

// Backup is a full serialized snapshot of all collections, as returned
// by the export operation. Read-only; taking a backup mutates nothing.
type Backup struct {
	Raffles   []Raffle   `json:"raffles"`
	Tickets   []Ticket   `json:"tickets"`
	Purchases []Purchase `json:"purchases"`
	Users     []User     `json:"users"`
}
