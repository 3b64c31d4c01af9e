package repository

import (
	"context"
	"time"

	"github.com/rifamaster/rifa-api/internal/domain"
	"github.com/rifamaster/rifa-api/internal/repository/dao"
)

var (
	ErrRaffleNotFound    = dao.ErrRaffleNotFound
	ErrRaffleNotActive   = dao.ErrRaffleNotActive
	ErrAlreadyDrawn      = dao.ErrAlreadyDrawn
	ErrTicketUnavailable = dao.ErrTicketUnavailable
	ErrTicketNotFound    = dao.ErrTicketNotFound
)

type RaffleDAO interface {
	InsertWithTickets(ctx context.Context, raffle dao.Raffle, tickets []dao.Ticket) (dao.Raffle, error)
	FindAll(ctx context.Context) ([]dao.Raffle, error)
	FindByID(ctx context.Context, id string) (dao.Raffle, error)
	FindTicketsByRaffleID(ctx context.Context, raffleID string) ([]dao.Ticket, error)
	FindSoldTickets(ctx context.Context, raffleID string) ([]dao.Ticket, error)
	FindAllTickets(ctx context.Context) ([]dao.Ticket, error)
	SellTickets(ctx context.Context, raffleID string, ticketIDs []string, userID string, purchase dao.Purchase) (dao.Purchase, error)
	MarkDrawn(ctx context.Context, raffleID, winnerTicketID, winnerUserID string, drawDate time.Time) error
	Close(ctx context.Context, raffleID string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountTicketsByStatus(ctx context.Context, status string) (int64, error)
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

func (r *RaffleRepository) raffleDomainToDao(raffle domain.Raffle) dao.Raffle {
	return dao.Raffle{
		ID:             raffle.ID,
		Title:          raffle.Title,
		Description:    raffle.Description,
		ImageURL:       raffle.ImageURL,
		PricePerTicket: raffle.PricePerTicket,
		TotalTickets:   raffle.TotalTickets,
		Status:         string(raffle.Status),
		CreatedAt:      raffle.CreatedAt,
		DrawDate:       raffle.DrawDate,
		WinnerTicketID: raffle.WinnerTicketID,
		WinnerUserID:   raffle.WinnerUserID,
	}
}

func (r *RaffleRepository) raffleDaoToDomain(raffle dao.Raffle) domain.Raffle {
	return domain.Raffle{
		ID:             raffle.ID,
		Title:          raffle.Title,
		Description:    raffle.Description,
		ImageURL:       raffle.ImageURL,
		PricePerTicket: raffle.PricePerTicket,
		TotalTickets:   raffle.TotalTickets,
		Status:         domain.RaffleStatus(raffle.Status),
		CreatedAt:      raffle.CreatedAt,
		DrawDate:       raffle.DrawDate,
		WinnerTicketID: raffle.WinnerTicketID,
		WinnerUserID:   raffle.WinnerUserID,
	}
}

func (r *RaffleRepository) ticketDomainToDao(ticket domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:         ticket.ID,
		Number:     ticket.Number,
		RaffleID:   ticket.RaffleID,
		Status:     string(ticket.Status),
		UserID:     ticket.UserID,
		PurchaseID: ticket.PurchaseID,
	}
}

func (r *RaffleRepository) ticketDaoToDomain(ticket dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:         ticket.ID,
		Number:     ticket.Number,
		RaffleID:   ticket.RaffleID,
		Status:     domain.TicketStatus(ticket.Status),
		UserID:     ticket.UserID,
		PurchaseID: ticket.PurchaseID,
	}
}

func (r *RaffleRepository) ticketsDaoToDomain(tickets []dao.Ticket) []domain.Ticket {
	domainTickets := make([]domain.Ticket, len(tickets))
	for i, ticket := range tickets {
		domainTickets[i] = r.ticketDaoToDomain(ticket)
	}

	return domainTickets
}

func (r *RaffleRepository) CreateWithTickets(ctx context.Context, raffle domain.Raffle, tickets []domain.Ticket) (domain.Raffle, error) {
	daoTickets := make([]dao.Ticket, len(tickets))
	for i, ticket := range tickets {
		daoTickets[i] = r.ticketDomainToDao(ticket)
	}

	created, err := r.dao.InsertWithTickets(ctx, r.raffleDomainToDao(raffle), daoTickets)
	if err != nil {
		return domain.Raffle{}, err
	}

	return r.raffleDaoToDomain(created), nil
}

func (r *RaffleRepository) FindAll(ctx context.Context) ([]domain.Raffle, error) {
	raffles, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	domainRaffles := make([]domain.Raffle, len(raffles))
	for i, raffle := range raffles {
		domainRaffles[i] = r.raffleDaoToDomain(raffle)
	}

	return domainRaffles, nil
}

func (r *RaffleRepository) FindByID(ctx context.Context, id string) (domain.Raffle, error) {
	raffle, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, err
	}

	return r.raffleDaoToDomain(raffle), nil
}

func (r *RaffleRepository) FindTickets(ctx context.Context, raffleID string) ([]domain.Ticket, error) {
	tickets, err := r.dao.FindTicketsByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	return r.ticketsDaoToDomain(tickets), nil
}

func (r *RaffleRepository) FindSoldTickets(ctx context.Context, raffleID string) ([]domain.Ticket, error) {
	tickets, err := r.dao.FindSoldTickets(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	return r.ticketsDaoToDomain(tickets), nil
}

func (r *RaffleRepository) FindAllTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := r.dao.FindAllTickets(ctx)
	if err != nil {
		return nil, err
	}

	return r.ticketsDaoToDomain(tickets), nil
}

// SellTickets records the purchase and flips its tickets to SOLD as one
// atomic write. The returned purchase mirrors what was persisted.
func (r *RaffleRepository) SellTickets(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	created, err := r.dao.SellTickets(ctx, purchase.RaffleID, purchase.TicketIDs, purchase.UserID, purchaseDomainToDao(purchase))
	if err != nil {
		return domain.Purchase{}, err
	}

	return purchaseDaoToDomain(created), nil
}

func (r *RaffleRepository) MarkDrawn(ctx context.Context, raffleID, winnerTicketID, winnerUserID string, drawDate time.Time) error {
	return r.dao.MarkDrawn(ctx, raffleID, winnerTicketID, winnerUserID, drawDate)
}

func (r *RaffleRepository) Close(ctx context.Context, raffleID string) error {
	return r.dao.Close(ctx, raffleID)
}

func (r *RaffleRepository) CountActive(ctx context.Context) (int64, error) {
	return r.dao.CountByStatus(ctx, string(domain.RaffleStatusActive))
}

func (r *RaffleRepository) CountSoldTickets(ctx context.Context) (int64, error) {
	return r.dao.CountTicketsByStatus(ctx, string(domain.TicketStatusSold))
}
