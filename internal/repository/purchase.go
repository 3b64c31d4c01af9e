package repository

import (
	"context"
	"strings"

	"github.com/rifamaster/rifa-api/internal/domain"
	"github.com/rifamaster/rifa-api/internal/repository/dao"
)

var ErrPurchaseNotFound = dao.ErrPurchaseNotFound

type PurchaseDAO interface {
	FindByID(ctx context.Context, id string) (dao.Purchase, error)
	FindByUserID(ctx context.Context, userID string) ([]dao.Purchase, error)
	FindAll(ctx context.Context) ([]dao.Purchase, error)
	SumTotalAmount(ctx context.Context) (float64, error)
}

type PurchaseRepository struct {
	dao PurchaseDAO
}

func NewPurchaseRepository(dao PurchaseDAO) *PurchaseRepository {
	return &PurchaseRepository{
		dao: dao,
	}
}

func purchaseDomainToDao(purchase domain.Purchase) dao.Purchase {
	return dao.Purchase{
		ID:          purchase.ID,
		UserID:      purchase.UserID,
		RaffleID:    purchase.RaffleID,
		TicketIDs:   strings.Join(purchase.TicketIDs, ","),
		TotalAmount: purchase.TotalAmount,
		CreatedAt:   purchase.CreatedAt,
	}
}

func purchaseDaoToDomain(purchase dao.Purchase) domain.Purchase {
	var ticketIDs []string
	if purchase.TicketIDs != "" {
		ticketIDs = strings.Split(purchase.TicketIDs, ",")
	}

	return domain.Purchase{
		ID:          purchase.ID,
		UserID:      purchase.UserID,
		RaffleID:    purchase.RaffleID,
		TicketIDs:   ticketIDs,
		TotalAmount: purchase.TotalAmount,
		CreatedAt:   purchase.CreatedAt,
	}
}

func purchasesDaoToDomain(purchases []dao.Purchase) []domain.Purchase {
	domainPurchases := make([]domain.Purchase, len(purchases))
	for i, purchase := range purchases {
		domainPurchases[i] = purchaseDaoToDomain(purchase)
	}

	return domainPurchases
}

func (r *PurchaseRepository) FindByID(ctx context.Context, id string) (domain.Purchase, error) {
	purchase, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Purchase{}, err
	}

	return purchaseDaoToDomain(purchase), nil
}

func (r *PurchaseRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Purchase, error) {
	purchases, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return purchasesDaoToDomain(purchases), nil
}

func (r *PurchaseRepository) FindAll(ctx context.Context) ([]domain.Purchase, error) {
	purchases, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return purchasesDaoToDomain(purchases), nil
}

func (r *PurchaseRepository) SumTotalAmount(ctx context.Context) (float64, error) {
	return r.dao.SumTotalAmount(ctx)
}
