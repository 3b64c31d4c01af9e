package service

import (
	"context"
	"fmt"

	"github.com/rifamaster/rifa-api/internal/domain"
)

type StatsRaffleRepository interface {
	FindAll(ctx context.Context) ([]domain.Raffle, error)
	FindAllTickets(ctx context.Context) ([]domain.Ticket, error)
	CountActive(ctx context.Context) (int64, error)
	CountSoldTickets(ctx context.Context) (int64, error)
}

type StatsPurchaseRepository interface {
	FindAll(ctx context.Context) ([]domain.Purchase, error)
	SumTotalAmount(ctx context.Context) (float64, error)
}

// StatsUserRepository is the identity collaborator: the user count is
// read from it, never derived from raffle data.
type StatsUserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// StatsService derives read-only rollups from the stored collections.
// It never mutates anything.
type StatsService struct {
	raffleRepo   StatsRaffleRepository
	purchaseRepo StatsPurchaseRepository
	userRepo     StatsUserRepository
}

func NewStatsService(raffleRepo StatsRaffleRepository, purchaseRepo StatsPurchaseRepository, userRepo StatsUserRepository) *StatsService {
	return &StatsService{
		raffleRepo:   raffleRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
	}
}

func (s *StatsService) Snapshot(ctx context.Context) (domain.DashboardStats, error) {
	totalRevenue, err := s.purchaseRepo.SumTotalAmount(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.purchaseRepo.SumTotalAmount -> %w", err)
	}

	activeRaffles, err := s.raffleRepo.CountActive(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.raffleRepo.CountActive -> %w", err)
	}

	ticketsSold, err := s.raffleRepo.CountSoldTickets(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.raffleRepo.CountSoldTickets -> %w", err)
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.userRepo.Count -> %w", err)
	}

	return domain.DashboardStats{
		TotalRevenue:  totalRevenue,
		ActiveRaffles: int(activeRaffles),
		TicketsSold:   int(ticketsSold),
		TotalUsers:    int(totalUsers),
	}, nil
}

// Export returns a full snapshot of all collections for backup.
// Read-only; password hashes are stripped from the user records.
func (s *StatsService) Export(ctx context.Context) (domain.Backup, error) {
	raffles, err := s.raffleRepo.FindAll(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("s.raffleRepo.FindAll -> %w", err)
	}

	tickets, err := s.raffleRepo.FindAllTickets(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("s.raffleRepo.FindAllTickets -> %w", err)
	}

	purchases, err := s.purchaseRepo.FindAll(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("s.purchaseRepo.FindAll -> %w", err)
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("s.userRepo.FindAll -> %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}

	return domain.Backup{
		Raffles:   raffles,
		Tickets:   tickets,
		Purchases: purchases,
		Users:     users,
	}, nil
}
