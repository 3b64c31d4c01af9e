package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rifamaster/rifa-api/internal/domain"
	"github.com/rifamaster/rifa-api/internal/repository"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPurchaseNotFound = repository.ErrPurchaseNotFound
)

type PurchaseRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]domain.Purchase, error)
}

type PurchaseRaffleRepository interface {
	FindByID(ctx context.Context, id string) (domain.Raffle, error)
}

// PurchaseService orchestrates ticket purchases. It validates the
// request, delegates the atomic reserve-and-sell to the inventory, and
// surfaces race losses unchanged: a TicketUnavailable failure means the
// buyer must pick different numbers, it is never retried silently.
type PurchaseService struct {
	inventory  *InventoryService
	repo       PurchaseRepository
	raffleRepo PurchaseRaffleRepository
}

func NewPurchaseService(inventory *InventoryService, repo PurchaseRepository, raffleRepo PurchaseRaffleRepository) *PurchaseService {
	return &PurchaseService{
		inventory:  inventory,
		repo:       repo,
		raffleRepo: raffleRepo,
	}
}

// Purchase buys the given tickets for the user. The selection must be
// non-empty and free of duplicates; the buyer gets exactly the numbers
// they chose or none.
func (s *PurchaseService) Purchase(ctx context.Context, userID, raffleID string, ticketIDs []string) (domain.Purchase, error) {
	if len(ticketIDs) == 0 {
		return domain.Purchase{}, fmt.Errorf("%w: no tickets selected", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		if _, ok := seen[id]; ok {
			return domain.Purchase{}, fmt.Errorf("%w: duplicate ticket %v", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	purchase, err := s.inventory.TryReserveAndSell(ctx, raffleID, ticketIDs, userID)
	if err != nil {
		return domain.Purchase{}, err
	}

	return purchase, nil
}

// ListPurchases returns the user's purchases paired with their raffles,
// newest first.
func (s *PurchaseService) ListPurchases(ctx context.Context, userID string) ([]domain.PurchaseWithRaffle, error) {
	purchases, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	raffles := make(map[string]domain.Raffle)
	result := make([]domain.PurchaseWithRaffle, 0, len(purchases))
	for _, purchase := range purchases {
		raffle, ok := raffles[purchase.RaffleID]
		if !ok {
			raffle, err = s.raffleRepo.FindByID(ctx, purchase.RaffleID)
			if err != nil {
				return nil, fmt.Errorf("s.raffleRepo.FindByID -> %w", err)
			}
			raffles[purchase.RaffleID] = raffle
		}

		result = append(result, domain.PurchaseWithRaffle{
			Purchase: purchase,
			Raffle:   raffle,
		})
	}

	return result, nil
}
