package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rifamaster/rifa-api/internal/domain"
)

type RaffleRepository interface {
	CreateWithTickets(ctx context.Context, raffle domain.Raffle, tickets []domain.Ticket) (domain.Raffle, error)
	FindAll(ctx context.Context) ([]domain.Raffle, error)
	FindByID(ctx context.Context, id string) (domain.Raffle, error)
	Close(ctx context.Context, raffleID string) error
}

type RaffleService struct {
	repo      RaffleRepository
	inventory *InventoryService
}

func NewRaffleService(repo RaffleRepository, inventory *InventoryService) *RaffleService {
	return &RaffleService{
		repo:      repo,
		inventory: inventory,
	}
}

// CreateRaffle creates an ACTIVE raffle together with its full ticket
// inventory, numbers 1..TotalTickets, all AVAILABLE. The ticket count
// and price are fixed for the raffle's lifetime.
func (s *RaffleService) CreateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	if raffle.PricePerTicket <= 0 {
		return domain.Raffle{}, fmt.Errorf("%w: price per ticket must be positive", ErrInvalidInput)
	}
	if raffle.TotalTickets <= 0 {
		return domain.Raffle{}, fmt.Errorf("%w: total tickets must be positive", ErrInvalidInput)
	}

	raffle.ID = uuid.NewString()
	raffle.Status = domain.RaffleStatusActive
	raffle.CreatedAt = time.Now().UTC()

	tickets := make([]domain.Ticket, raffle.TotalTickets)
	for i := range tickets {
		number := i + 1
		tickets[i] = domain.Ticket{
			ID:       domain.TicketID(raffle.ID, number),
			Number:   number,
			Status:   domain.TicketStatusAvailable,
			RaffleID: raffle.ID,
		}
	}

	created, err := s.repo.CreateWithTickets(ctx, raffle, tickets)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.CreateWithTickets -> %w", err)
	}

	zap.L().Info("raffle created",
		zap.String("raffleID", created.ID),
		zap.String("title", created.Title),
		zap.Int("totalTickets", created.TotalTickets),
	)

	return created, nil
}

func (s *RaffleService) GetRaffles(ctx context.Context) ([]domain.Raffle, error) {
	raffles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return raffles, nil
}

func (s *RaffleService) GetRaffleByID(ctx context.Context, id string) (domain.Raffle, error) {
	raffle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, err
	}

	return raffle, nil
}

func (s *RaffleService) GetTickets(ctx context.Context, raffleID string) ([]domain.Ticket, error) {
	return s.inventory.ListTickets(ctx, raffleID)
}

// CloseRaffle retires an ACTIVE raffle without drawing a winner. The
// transition is one-shot and runs in the raffle's critical section so
// it cannot race an in-flight purchase or draw.
func (s *RaffleService) CloseRaffle(ctx context.Context, raffleID string) error {
	return s.inventory.withRaffleLock(ctx, raffleID, func() error {
		return s.repo.Close(ctx, raffleID)
	})
}
