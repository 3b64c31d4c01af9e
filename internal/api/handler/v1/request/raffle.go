package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateRaffleRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"image_url"`
	PricePerTicket float64 `json:"price_per_ticket" binding:"required"`
	TotalTickets   int     `json:"total_tickets" binding:"required"`
}

func (req *CreateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.ImageURL, is.URL),
		validation.Field(&req.PricePerTicket, validation.Required, validation.Min(0.01)),
		validation.Field(&req.TotalTickets, validation.Required, validation.Min(1), validation.Max(100000)),
	)
}

type PurchaseRequest struct {
	TicketIDs []string `json:"ticket_ids" binding:"required"`
}

func (req *PurchaseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketIDs, validation.Required, validation.Length(1, 0)),
	)
}
