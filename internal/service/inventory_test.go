package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/rifamaster/rifa-api/internal/domain"
)

// Every caller asks for the same ticket set; exactly one may win and
// the rest must lose with ErrTicketUnavailable.
func TestInventoryService_ContendedTickets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const callers = 16

	raffle := env.createRaffle(t, 1.00, 10)
	buyers := make([]domain.User, callers)
	for i := range buyers {
		buyers[i] = env.createUser(t, "buyer-"+string(rune('a'+i)), false)
	}

	contested := ticketIDs(raffle, 1, 2, 3)

	var wins, losses atomic.Int64
	g := new(errgroup.Group)
	for i := 0; i < callers; i++ {
		buyer := buyers[i]
		g.Go(func() error {
			_, err := env.inventory.TryReserveAndSell(ctx, raffle.ID, contested, buyer.ID)
			switch {
			case err == nil:
				wins.Add(1)
				return nil
			case errors.Is(err, ErrTicketUnavailable):
				losses.Add(1)
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), wins.Load(), "exactly one caller may win the contested set")
	assert.Equal(t, int64(callers-1), losses.Load())

	tickets, err := env.inventory.ListTickets(ctx, raffle.ID)
	require.NoError(t, err)

	sold := 0
	for _, ticket := range tickets {
		if ticket.Status == domain.TicketStatusSold {
			sold++
		}
	}
	assert.Equal(t, 3, sold, "only the contested tickets may be sold")
}

// Disjoint selections never conflict: every caller succeeds and each
// ticket is sold exactly once, to exactly one purchase.
func TestInventoryService_DisjointTickets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const callers = 10
	const perCaller = 5

	raffle := env.createRaffle(t, 2.50, callers*perCaller)

	g := new(errgroup.Group)
	for i := 0; i < callers; i++ {
		buyer := env.createUser(t, "buyer-"+string(rune('a'+i)), false)
		start := i * perCaller
		g.Go(func() error {
			numbers := make([]int, perCaller)
			for j := range numbers {
				numbers[j] = start + j + 1
			}
			_, err := env.inventory.TryReserveAndSell(ctx, raffle.ID, ticketIDs(raffle, numbers...), buyer.ID)
			return err
		})
	}
	require.NoError(t, g.Wait())

	tickets, err := env.inventory.ListTickets(ctx, raffle.ID)
	require.NoError(t, err)
	require.Len(t, tickets, callers*perCaller)

	purchasesPerTicket := map[string]string{}
	for _, ticket := range tickets {
		require.Equal(t, domain.TicketStatusSold, ticket.Status)
		require.NotNil(t, ticket.PurchaseID)
		purchasesPerTicket[ticket.ID] = *ticket.PurchaseID
	}

	distinct := map[string]int{}
	for _, purchaseID := range purchasesPerTicket {
		distinct[purchaseID]++
	}
	assert.Len(t, distinct, callers)
	for purchaseID, count := range distinct {
		assert.Equal(t, perCaller, count, "purchase %v owns the wrong number of tickets", purchaseID)
	}
}

// The inventory itself rejects an empty selection; a zero-ticket,
// zero-amount Purchase must never be recorded, whatever the caller.
func TestInventoryService_EmptySelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raffle := env.createRaffle(t, 1.00, 5)
	buyer := env.createUser(t, "buyer", false)

	_, err := env.inventory.TryReserveAndSell(ctx, raffle.ID, nil, buyer.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.inventory.TryReserveAndSell(ctx, raffle.ID, []string{}, buyer.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	purchases, err := env.purchaseRepo.FindByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestInventoryService_LockTimeout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raffle := env.createRaffle(t, 1.00, 5)
	buyer := env.createUser(t, "buyer", false)

	env.inventory.lockWait = 50 * time.Millisecond

	locked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = env.inventory.withRaffleLock(ctx, raffle.ID, func() error {
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked
	defer close(release)

	_, err := env.inventory.TryReserveAndSell(ctx, raffle.ID, ticketIDs(raffle, 1), buyer.ID)
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestInventoryService_LockIsPerRaffle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	blocked := env.createRaffle(t, 1.00, 5)
	free := env.createRaffle(t, 1.00, 5)
	buyer := env.createUser(t, "buyer", false)

	locked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = env.inventory.withRaffleLock(ctx, blocked.ID, func() error {
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked
	defer close(release)

	// Holding one raffle's lock must not stall another raffle.
	_, err := env.inventory.TryReserveAndSell(ctx, free.ID, ticketIDs(free, 1), buyer.ID)
	assert.NoError(t, err)
}
