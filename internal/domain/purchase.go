package domain

import "time"

// Purchase is an immutable ledger record of one buyer acquiring a set of
// tickets in a single transaction. Purchases are only ever created.
type Purchase struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	RaffleID    string    `json:"raffleId"`
	TicketIDs   []string  `json:"ticketIds"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PurchaseWithRaffle pairs a purchase with the raffle it belongs to,
// for the buyer's purchase history view.
type PurchaseWithRaffle struct {
	Purchase Purchase `json:"purchase"`
	Raffle   Raffle   `json:"raffle"`
}
