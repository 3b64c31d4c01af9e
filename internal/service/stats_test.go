package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rifamaster/rifa-api/internal/domain"
)

func TestStatsService_Snapshot_Empty(t *testing.T) {
	env := newTestEnv(t)

	stats, err := env.stats.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalRevenue)
	assert.Zero(t, stats.ActiveRaffles)
	assert.Zero(t, stats.TicketsSold)
	assert.Zero(t, stats.TotalUsers)
}

// Raffles without sales contribute nothing to revenue or sold counts.
func TestStatsService_Snapshot_NoSales(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		env.createRaffle(t, 5.00, 20)
	}

	stats, err := env.stats.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalRevenue)
	assert.Equal(t, 3, stats.ActiveRaffles)
	assert.Zero(t, stats.TicketsSold)
}

// Revenue must always equal the sum of all recorded purchases.
func TestStatsService_Snapshot_RevenueConservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raffleA := env.createRaffle(t, 2.00, 10)
	raffleB := env.createRaffle(t, 0.50, 100)
	buyer := env.createUser(t, "buyer", false)
	other := env.createUser(t, "other", false)

	p1, err := env.purchases.Purchase(ctx, buyer.ID, raffleA.ID, ticketIDs(raffleA, 1, 2, 3))
	require.NoError(t, err)
	p2, err := env.purchases.Purchase(ctx, other.ID, raffleA.ID, ticketIDs(raffleA, 4))
	require.NoError(t, err)
	p3, err := env.purchases.Purchase(ctx, buyer.ID, raffleB.ID, ticketIDs(raffleB, 7, 8))
	require.NoError(t, err)

	stats, err := env.stats.Snapshot(ctx)
	require.NoError(t, err)

	wantRevenue := p1.TotalAmount + p2.TotalAmount + p3.TotalAmount
	assert.InDelta(t, wantRevenue, stats.TotalRevenue, 1e-9)
	assert.InDelta(t, 9.00, stats.TotalRevenue, 1e-9)
	assert.Equal(t, 2, stats.ActiveRaffles)
	assert.Equal(t, 6, stats.TicketsSold)
	assert.Equal(t, 2, stats.TotalUsers)

	// Drawing one raffle shrinks the active count but not the ledger.
	_, err = env.draws.Draw(ctx, raffleA.ID)
	require.NoError(t, err)

	stats, err = env.stats.Snapshot(ctx)
	require.NoError(t, err)
	assert.InDelta(t, wantRevenue, stats.TotalRevenue, 1e-9)
	assert.Equal(t, 1, stats.ActiveRaffles)
	assert.Equal(t, 6, stats.TicketsSold)
}

func TestStatsService_Export(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raffle := env.createRaffle(t, 2.00, 5)
	buyer := env.createUser(t, "buyer", false)

	purchase, err := env.purchases.Purchase(ctx, buyer.ID, raffle.ID, ticketIDs(raffle, 1, 2))
	require.NoError(t, err)

	backup, err := env.stats.Export(ctx)
	require.NoError(t, err)

	require.Len(t, backup.Raffles, 1)
	assert.Equal(t, raffle.ID, backup.Raffles[0].ID)
	require.Len(t, backup.Tickets, 5)
	require.Len(t, backup.Purchases, 1)
	assert.Equal(t, purchase.ID, backup.Purchases[0].ID)
	assert.ElementsMatch(t, ticketIDs(raffle, 1, 2), backup.Purchases[0].TicketIDs)
	require.Len(t, backup.Users, 1)
	assert.Empty(t, backup.Users[0].Password, "export must not leak password hashes")

	// Export is read-only: a second export sees identical state.
	again, err := env.stats.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, backup, again)
}

func TestStatsService_TicketStatusValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raffle := env.createRaffle(t, 1.00, 3)
	buyer := env.createUser(t, "buyer", false)

	_, err := env.purchases.Purchase(ctx, buyer.ID, raffle.ID, ticketIDs(raffle, 2))
	require.NoError(t, err)

	backup, err := env.stats.Export(ctx)
	require.NoError(t, err)

	statuses := map[int]domain.TicketStatus{}
	for _, ticket := range backup.Tickets {
		statuses[ticket.Number] = ticket.Status
	}
	assert.Equal(t, domain.TicketStatusAvailable, statuses[1])
	assert.Equal(t, domain.TicketStatusSold, statuses[2])
	assert.Equal(t, domain.TicketStatusAvailable, statuses[3])
}
