package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rifamaster/rifa-api/internal/db"
	"github.com/rifamaster/rifa-api/internal/domain"
	"github.com/rifamaster/rifa-api/internal/repository"
	"github.com/rifamaster/rifa-api/internal/repository/dao"
)

type testEnv struct {
	raffleRepo   *repository.RaffleRepository
	purchaseRepo *repository.PurchaseRepository
	userRepo     *repository.UserRepository

	inventory *InventoryService
	raffles   *RaffleService
	purchases *PurchaseService
	draws     *DrawService
	stats     *StatsService
	auth      *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)

	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(gdb))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(gdb))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(gdb))

	inventory := NewInventoryService(raffleRepo)

	return &testEnv{
		raffleRepo:   raffleRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		inventory:    inventory,
		raffles:      NewRaffleService(raffleRepo, inventory),
		purchases:    NewPurchaseService(inventory, purchaseRepo, raffleRepo),
		draws:        NewDrawService(inventory),
		stats:        NewStatsService(raffleRepo, purchaseRepo, userRepo),
		auth:         NewAuthService(userRepo),
	}
}

func (env *testEnv) createUser(t *testing.T, name string, isAdmin bool) domain.User {
	t.Helper()

	now := time.Now().UTC()
	user, err := env.userRepo.Create(context.Background(), domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     name + "@example.com",
		Password:  "not-a-real-hash",
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	return user
}

func (env *testEnv) createRaffle(t *testing.T, price float64, totalTickets int) domain.Raffle {
	t.Helper()

	raffle, err := env.raffles.CreateRaffle(context.Background(), domain.Raffle{
		Title:          "Test Raffle",
		Description:    "A raffle for tests",
		ImageURL:       "https://example.com/prize.jpg",
		PricePerTicket: price,
		TotalTickets:   totalTickets,
	})
	require.NoError(t, err)

	return raffle
}

func ticketIDs(raffle domain.Raffle, numbers ...int) []string {
	ids := make([]string, len(numbers))
	for i, n := range numbers {
		ids[i] = domain.TicketID(raffle.ID, n)
	}

	return ids
}
