package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rifamaster/rifa-api/internal/domain"
	"github.com/rifamaster/rifa-api/internal/repository"
)

var (
	ErrRaffleNotFound    = repository.ErrRaffleNotFound
	ErrRaffleNotActive   = repository.ErrRaffleNotActive
	ErrAlreadyDrawn      = repository.ErrAlreadyDrawn
	ErrTicketUnavailable = repository.ErrTicketUnavailable
	ErrTicketNotFound    = repository.ErrTicketNotFound
	ErrLockTimeout       = errors.New("timed out waiting for raffle lock")
)

// defaultLockWait bounds how long a purchase or draw may wait for a
// raffle's critical section before giving up with ErrLockTimeout.
const defaultLockWait = 5 * time.Second

type InventoryRepository interface {
	FindByID(ctx context.Context, id string) (domain.Raffle, error)
	FindTickets(ctx context.Context, raffleID string) ([]domain.Ticket, error)
	FindSoldTickets(ctx context.Context, raffleID string) ([]domain.Ticket, error)
	SellTickets(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error)
	MarkDrawn(ctx context.Context, raffleID, winnerTicketID, winnerUserID string, drawDate time.Time) error
}

// InventoryService owns every mutation of a raffle's ticket set and of
// the raffle status itself. Mutations for one raffle are serialized
// through a lock keyed by raffle id, so unrelated raffles never contend.
type InventoryService struct {
	repo     InventoryRepository
	lockWait time.Duration

	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewInventoryService(repo InventoryRepository) *InventoryService {
	return &InventoryService{
		repo:     repo,
		lockWait: defaultLockWait,
		locks:    make(map[string]chan struct{}),
	}
}

func (s *InventoryService) raffleLock(raffleID string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[raffleID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.locks[raffleID] = lock
	}

	return lock
}

// withRaffleLock runs fn inside the raffle's critical section. The wait
// is bounded: callers get ErrLockTimeout instead of blocking forever.
func (s *InventoryService) withRaffleLock(ctx context.Context, raffleID string, fn func() error) error {
	lock := s.raffleLock(raffleID)

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case lock <- struct{}{}:
	case <-timer.C:
		return ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	return fn()
}

// ListTickets returns the raffle's tickets sorted by number. An unknown
// raffle yields an empty list, not an error.
func (s *InventoryService) ListTickets(ctx context.Context, raffleID string) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindTickets(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTickets -> %w", err)
	}

	return tickets, nil
}

// TryReserveAndSell transitions every requested ticket AVAILABLE -> SOLD
// and records the purchase, atomically across the full set. Partial
// fills are rejected: if any requested ticket is unavailable the whole
// call fails with ErrTicketUnavailable and nothing is written.
func (s *InventoryService) TryReserveAndSell(ctx context.Context, raffleID string, ticketIDs []string, userID string) (domain.Purchase, error) {
	if len(ticketIDs) == 0 {
		return domain.Purchase{}, fmt.Errorf("%w: no tickets selected", ErrInvalidInput)
	}

	var purchase domain.Purchase

	err := s.withRaffleLock(ctx, raffleID, func() error {
		raffle, err := s.repo.FindByID(ctx, raffleID)
		if err != nil {
			return err
		}
		if !raffle.IsActive() {
			return ErrRaffleNotActive
		}

		draft := domain.Purchase{
			ID:          uuid.NewString(),
			UserID:      userID,
			RaffleID:    raffleID,
			TicketIDs:   ticketIDs,
			TotalAmount: raffle.PricePerTicket * float64(len(ticketIDs)),
			CreatedAt:   time.Now().UTC(),
		}

		purchase, err = s.repo.SellTickets(ctx, draft)
		return err
	})
	if err != nil {
		return domain.Purchase{}, err
	}

	return purchase, nil
}

// MarkDrawn performs the one-shot ACTIVE -> DRAWN transition inside the
// raffle's critical section. A raffle already DRAWN reports
// ErrAlreadyDrawn; a CLOSED one reports ErrRaffleNotActive.
func (s *InventoryService) MarkDrawn(ctx context.Context, raffleID, winnerTicketID, winnerUserID string) error {
	return s.withRaffleLock(ctx, raffleID, func() error {
		return s.markDrawnLocked(ctx, raffleID, winnerTicketID, winnerUserID)
	})
}

func (s *InventoryService) markDrawnLocked(ctx context.Context, raffleID, winnerTicketID, winnerUserID string) error {
	return s.repo.MarkDrawn(ctx, raffleID, winnerTicketID, winnerUserID, time.Now().UTC())
}
