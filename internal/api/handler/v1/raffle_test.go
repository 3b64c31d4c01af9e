package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rifamaster/rifa-api/internal/api/middleware"
	"github.com/rifamaster/rifa-api/internal/domain"
	"github.com/rifamaster/rifa-api/internal/service"
)

type stubUserService struct {
	user domain.User
	err  error
}

func (s *stubUserService) GetUser(_ context.Context, _ string) (domain.User, error) {
	return s.user, s.err
}

type stubRaffleService struct {
	raffle domain.Raffle
	err    error
}

func (s *stubRaffleService) CreateRaffle(_ context.Context, _ domain.Raffle) (domain.Raffle, error) {
	return s.raffle, s.err
}

func (s *stubRaffleService) GetRaffles(_ context.Context) ([]domain.Raffle, error) {
	return []domain.Raffle{s.raffle}, s.err
}

func (s *stubRaffleService) GetRaffleByID(_ context.Context, _ string) (domain.Raffle, error) {
	return s.raffle, s.err
}

func (s *stubRaffleService) GetTickets(_ context.Context, _ string) ([]domain.Ticket, error) {
	return nil, s.err
}

func (s *stubRaffleService) CloseRaffle(_ context.Context, _ string) error {
	return s.err
}

type stubPurchaseService struct {
	purchase domain.Purchase
	err      error
}

func (s *stubPurchaseService) Purchase(_ context.Context, _, _ string, _ []string) (domain.Purchase, error) {
	return s.purchase, s.err
}

func (s *stubPurchaseService) ListPurchases(_ context.Context, _ string) ([]domain.PurchaseWithRaffle, error) {
	return nil, s.err
}

type stubDrawService struct {
	winner domain.Ticket
	err    error
}

func (s *stubDrawService) Draw(_ context.Context, _ string) (domain.Ticket, error) {
	return s.winner, s.err
}

func newTestRouter(handler *RaffleHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		if userID != "" {
			ctx.Set(middleware.ContextKeyUserID, userID)
		}
	})

	router.POST("/v1/raffles/:raffleID/purchase", handler.HandlePurchase)
	router.POST("/v1/raffles/:raffleID/draw", handler.HandleDraw)
	router.POST("/v1/raffles/:raffleID/close", handler.HandleCloseRaffle)

	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &decoded))

	return resp, decoded
}

func TestHandlePurchase(t *testing.T) {
	buyer := domain.User{ID: "user-1", Name: "Buyer"}
	body := `{"ticket_ids":["r1-ticket-1","r1-ticket-2"]}`

	tests := []struct {
		name       string
		purchase   *stubPurchaseService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "ticket already sold",
			purchase:   &stubPurchaseService{err: service.ErrTicketUnavailable},
			wantStatus: http.StatusConflict,
			wantCode:   "TICKET_UNAVAILABLE",
		},
		{
			name:       "raffle not active",
			purchase:   &stubPurchaseService{err: service.ErrRaffleNotActive},
			wantStatus: http.StatusConflict,
			wantCode:   "RAFFLE_NOT_ACTIVE",
		},
		{
			name:       "raffle not found",
			purchase:   &stubPurchaseService{err: service.ErrRaffleNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "unknown ticket",
			purchase:   &stubPurchaseService{err: service.ErrTicketNotFound},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "raffle busy",
			purchase:   &stubPurchaseService{err: service.ErrLockTimeout},
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "BUSY",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRaffleHandler(&stubRaffleService{}, tc.purchase, &stubDrawService{}, &stubUserService{user: buyer})
			router := newTestRouter(handler, buyer.ID)

			resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/purchase", body)

			assert.Equal(t, tc.wantStatus, resp.Code)
			assert.Equal(t, tc.wantCode, decoded["code"])
		})
	}

	t.Run("success", func(t *testing.T) {
		purchase := domain.Purchase{
			ID:          "p1",
			UserID:      buyer.ID,
			RaffleID:    "r1",
			TicketIDs:   []string{"r1-ticket-1", "r1-ticket-2"},
			TotalAmount: 4.00,
		}
		handler := NewRaffleHandler(&stubRaffleService{}, &stubPurchaseService{purchase: purchase}, &stubDrawService{}, &stubUserService{user: buyer})
		router := newTestRouter(handler, buyer.ID)

		resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/purchase", body)

		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, "p1", decoded["id"])
	})

	t.Run("empty selection rejected before the service", func(t *testing.T) {
		handler := NewRaffleHandler(&stubRaffleService{}, &stubPurchaseService{}, &stubDrawService{}, &stubUserService{user: buyer})
		router := newTestRouter(handler, buyer.ID)

		resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/purchase", `{"ticket_ids":[]}`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "BAD_REQUEST", decoded["code"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler := NewRaffleHandler(&stubRaffleService{}, &stubPurchaseService{}, &stubDrawService{}, &stubUserService{user: buyer})
		router := newTestRouter(handler, "")

		resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/purchase", body)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "UNAUTHORIZED", decoded["code"])
	})
}

func TestHandleDraw(t *testing.T) {
	admin := domain.User{ID: "admin-1", Name: "Admin", IsAdmin: true}

	tests := []struct {
		name       string
		draw       *stubDrawService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "already drawn",
			draw:       &stubDrawService{err: service.ErrAlreadyDrawn},
			wantStatus: http.StatusConflict,
			wantCode:   "ALREADY_DRAWN",
		},
		{
			name:       "closed raffle",
			draw:       &stubDrawService{err: service.ErrRaffleNotActive},
			wantStatus: http.StatusConflict,
			wantCode:   "RAFFLE_NOT_ACTIVE",
		},
		{
			name:       "no sold tickets",
			draw:       &stubDrawService{err: service.ErrNoSoldTickets},
			wantStatus: http.StatusConflict,
			wantCode:   "NO_SOLD_TICKETS",
		},
		{
			name:       "raffle not found",
			draw:       &stubDrawService{err: service.ErrRaffleNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRaffleHandler(&stubRaffleService{}, &stubPurchaseService{}, tc.draw, &stubUserService{user: admin})
			router := newTestRouter(handler, admin.ID)

			resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/draw", "")

			assert.Equal(t, tc.wantStatus, resp.Code)
			assert.Equal(t, tc.wantCode, decoded["code"])
		})
	}

	t.Run("success", func(t *testing.T) {
		winner := domain.Ticket{ID: "r1-ticket-3", Number: 3, Status: domain.TicketStatusSold, RaffleID: "r1"}
		handler := NewRaffleHandler(&stubRaffleService{}, &stubPurchaseService{}, &stubDrawService{winner: winner}, &stubUserService{user: admin})
		router := newTestRouter(handler, admin.ID)

		resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/draw", "")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "r1-ticket-3", decoded["id"])
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		buyer := domain.User{ID: "user-1", Name: "Buyer"}
		handler := NewRaffleHandler(&stubRaffleService{}, &stubPurchaseService{}, &stubDrawService{}, &stubUserService{user: buyer})
		router := newTestRouter(handler, buyer.ID)

		resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/draw", "")

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "PERMISSION_DENIED", decoded["code"])
	})
}

func TestHandleCloseRaffle(t *testing.T) {
	admin := domain.User{ID: "admin-1", Name: "Admin", IsAdmin: true}

	t.Run("success", func(t *testing.T) {
		handler := NewRaffleHandler(&stubRaffleService{}, &stubPurchaseService{}, &stubDrawService{}, &stubUserService{user: admin})
		router := newTestRouter(handler, admin.ID)

		resp, _ := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/close", "")

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("already drawn", func(t *testing.T) {
		handler := NewRaffleHandler(&stubRaffleService{err: service.ErrAlreadyDrawn}, &stubPurchaseService{}, &stubDrawService{}, &stubUserService{user: admin})
		router := newTestRouter(handler, admin.ID)

		resp, decoded := doRequest(t, router, http.MethodPost, "/v1/raffles/r1/close", "")

		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, "ALREADY_DRAWN", decoded["code"])
	})
}
