package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rifamaster/rifa-api/internal/domain"
)

var ErrNoSoldTickets = errors.New("no sold tickets to draw from")

// DrawService selects the winning ticket of a raffle, exactly once,
// uniformly at random among the tickets actually sold. The random
// source is injected so fairness is testable with a fixed seed.
type DrawService struct {
	inventory *InventoryService

	mu  sync.Mutex
	rng *rand.Rand
}

func NewDrawService(inventory *InventoryService) *DrawService {
	return NewDrawServiceWithRand(inventory, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewDrawServiceWithRand(inventory *InventoryService, rng *rand.Rand) *DrawService {
	return &DrawService{
		inventory: inventory,
		rng:       rng,
	}
}

// Draw picks the winner and transitions the raffle to DRAWN. The whole
// read-pick-mark sequence runs inside the raffle's critical section, so
// two racing draws yield exactly one winner and one ErrAlreadyDrawn,
// and no purchase can slip in between the pick and the status change.
func (s *DrawService) Draw(ctx context.Context, raffleID string) (domain.Ticket, error) {
	var winner domain.Ticket

	err := s.inventory.withRaffleLock(ctx, raffleID, func() error {
		raffle, err := s.inventory.repo.FindByID(ctx, raffleID)
		if err != nil {
			return err
		}
		switch raffle.Status {
		case domain.RaffleStatusDrawn:
			return ErrAlreadyDrawn
		case domain.RaffleStatusClosed:
			return ErrRaffleNotActive
		}

		sold, err := s.inventory.repo.FindSoldTickets(ctx, raffleID)
		if err != nil {
			return fmt.Errorf("s.inventory.repo.FindSoldTickets -> %w", err)
		}
		if len(sold) == 0 {
			return ErrNoSoldTickets
		}

		winner = s.pickWinner(sold)

		var winnerUserID string
		if winner.UserID != nil {
			winnerUserID = *winner.UserID
		}

		return s.inventory.markDrawnLocked(ctx, raffleID, winner.ID, winnerUserID)
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	zap.L().Info("raffle drawn",
		zap.String("raffleID", raffleID),
		zap.String("winnerTicketID", winner.ID),
		zap.Int("winnerNumber", winner.Number),
	)

	return winner, nil
}

// pickWinner selects uniformly among the sold tickets: every ticket has
// probability 1/n regardless of purchase, owner or number.
func (s *DrawService) pickWinner(sold []domain.Ticket) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	return sold[s.rng.Intn(len(sold))]
}
