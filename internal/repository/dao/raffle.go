package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRaffleNotFound    = errors.New("raffle not found")
	ErrRaffleNotActive   = errors.New("raffle is not active")
	ErrAlreadyDrawn      = errors.New("raffle has already been drawn")
	ErrTicketUnavailable = errors.New("ticket is not available")
	ErrTicketNotFound    = errors.New("ticket not found")
)

type Raffle struct {
	ID             string     `gorm:"primaryKey"`
	Title          string     `gorm:"not null"`
	Description    string
	ImageURL       string
	PricePerTicket float64    `gorm:"not null"`
	TotalTickets   int        `gorm:"not null"`
	Status         string     `gorm:"not null;index"`
	CreatedAt      time.Time  `gorm:"not null"`
	DrawDate       *time.Time
	WinnerTicketID *string
	WinnerUserID   *string
}

type Ticket struct {
	ID         string `gorm:"primaryKey"`
	Number     int    `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`
	RaffleID   string `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`
	Status     string `gorm:"not null;index"`
	UserID     *string
	PurchaseID *string
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

// InsertWithTickets creates the raffle row and its full ticket inventory
// in one transaction. The raffle is not visible to any reader until every
// ticket exists.
func (d *RaffleDAO) InsertWithTickets(ctx context.Context, raffle Raffle, tickets []Ticket) (Raffle, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&raffle).Error; err != nil {
			return err
		}

		return tx.CreateInBatches(tickets, 200).Error
	})
	if err != nil {
		return Raffle{}, err
	}

	return raffle, nil
}

func (d *RaffleDAO) FindAll(ctx context.Context) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

func (d *RaffleDAO) FindByID(ctx context.Context, id string) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) FindTicketsByRaffleID(ctx context.Context, raffleID string) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ?", raffleID).
		Order("number ASC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *RaffleDAO) FindSoldTickets(ctx context.Context, raffleID string) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND status = ?", raffleID, "SOLD").
		Order("number ASC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// SellTickets transitions every requested ticket AVAILABLE -> SOLD and
// records the purchase, all in one transaction. If the raffle is not
// ACTIVE or any ticket is missing or not AVAILABLE, nothing is written.
//
// Callers serialize invocations per raffle; the transaction makes the
// write itself all-or-nothing.
func (d *RaffleDAO) SellTickets(ctx context.Context, raffleID string, ticketIDs []string, userID string, purchase Purchase) (Purchase, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raffle Raffle
		if err := tx.First(&raffle, "id = ?", raffleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}

			return err
		}
		if raffle.Status != "ACTIVE" {
			return ErrRaffleNotActive
		}

		var tickets []Ticket
		if err := tx.Where("raffle_id = ? AND id IN ?", raffleID, ticketIDs).Find(&tickets).Error; err != nil {
			return err
		}
		if len(tickets) != len(ticketIDs) {
			return ErrTicketNotFound
		}
		for _, ticket := range tickets {
			if ticket.Status != "AVAILABLE" {
				return ErrTicketUnavailable
			}
		}

		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		result := tx.Model(&Ticket{}).
			Where("raffle_id = ? AND id IN ? AND status = ?", raffleID, ticketIDs, "AVAILABLE").
			Updates(map[string]interface{}{
				"status":      "SOLD",
				"user_id":     userID,
				"purchase_id": purchase.ID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ticketIDs)) {
			return ErrTicketUnavailable
		}

		return nil
	})
	if err != nil {
		return Purchase{}, err
	}

	return purchase, nil
}

// MarkDrawn performs the one-shot ACTIVE -> DRAWN transition and records
// the winner. DRAWN raffles report ErrAlreadyDrawn, CLOSED ones
// ErrRaffleNotActive.
func (d *RaffleDAO) MarkDrawn(ctx context.Context, raffleID, winnerTicketID, winnerUserID string, drawDate time.Time) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raffle Raffle
		if err := tx.First(&raffle, "id = ?", raffleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}

			return err
		}

		switch raffle.Status {
		case "DRAWN":
			return ErrAlreadyDrawn
		case "CLOSED":
			return ErrRaffleNotActive
		}

		return tx.Model(&Raffle{}).
			Where("id = ? AND status = ?", raffleID, "ACTIVE").
			Updates(map[string]interface{}{
				"status":           "DRAWN",
				"winner_ticket_id": winnerTicketID,
				"winner_user_id":   winnerUserID,
				"draw_date":        drawDate,
			}).Error
	})
}

// Close performs the one-shot ACTIVE -> CLOSED transition.
func (d *RaffleDAO) Close(ctx context.Context, raffleID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raffle Raffle
		if err := tx.First(&raffle, "id = ?", raffleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}

			return err
		}

		switch raffle.Status {
		case "DRAWN":
			return ErrAlreadyDrawn
		case "CLOSED":
			return ErrRaffleNotActive
		}

		return tx.Model(&Raffle{}).
			Where("id = ? AND status = ?", raffleID, "ACTIVE").
			Update("status", "CLOSED").Error
	})
}

func (d *RaffleDAO) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Raffle{}).Where("status = ?", status).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *RaffleDAO) CountTicketsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Ticket{}).Where("status = ?", status).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *RaffleDAO) FindAllTickets(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).Order("raffle_id ASC, number ASC").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}
