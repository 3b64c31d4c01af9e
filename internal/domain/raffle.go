package domain

import "time"

type RaffleStatus string

const (
	RaffleStatusActive RaffleStatus = "ACTIVE"
	RaffleStatusClosed RaffleStatus = "CLOSED"
	RaffleStatusDrawn  RaffleStatus = "DRAWN"
)

// Raffle is a prize draw with a fixed set of numbered tickets.
// Status only ever moves ACTIVE -> CLOSED or ACTIVE -> DRAWN;
// the winner fields are set exactly when the raffle is DRAWN.
type Raffle struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	ImageURL       string       `json:"imageUrl"`
	PricePerTicket float64      `json:"pricePerTicket"`
	TotalTickets   int          `json:"totalTickets"`
	Status         RaffleStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	DrawDate       *time.Time   `json:"drawDate,omitempty"`
	WinnerTicketID *string      `json:"winnerTicketId,omitempty"`
	WinnerUserID   *string      `json:"winnerUserId,omitempty"`
}

func (r Raffle) IsActive() bool {
	return r.Status == RaffleStatusActive
}
