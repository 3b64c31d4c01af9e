package domain

import "fmt"

type TicketStatus string

const (
	TicketStatusAvailable TicketStatus = "AVAILABLE"
	TicketStatusReserved  TicketStatus = "RESERVED" // In cart; not entered by the engine.
	TicketStatusSold      TicketStatus = "SOLD"
)

// Ticket is one numbered unit of participation in a raffle. All tickets
// for a raffle are created at raffle creation, one per number, AVAILABLE.
// UserID and PurchaseID are set together, once, on the AVAILABLE -> SOLD
// transition and never change afterwards.
type Ticket struct {
	ID         string       `json:"id"`
	Number     int          `json:"number"`
	Status     TicketStatus `json:"status"`
	RaffleID   string       `json:"raffleId"`
	UserID     *string      `json:"userId,omitempty"`
	PurchaseID *string      `json:"purchaseId,omitempty"`
}

// TicketID derives the deterministic ticket identity from its raffle
// and number.
func TicketID(raffleID string, number int) string {
	return fmt.Sprintf("%v-ticket-%v", raffleID, number)
}
