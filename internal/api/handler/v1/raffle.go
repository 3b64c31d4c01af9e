package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rifamaster/rifa-api/internal/api/handler/v1/request"
	"github.com/rifamaster/rifa-api/internal/api/handler/v1/response"
	"github.com/rifamaster/rifa-api/internal/domain"
	"github.com/rifamaster/rifa-api/internal/service"
)

type RaffleService interface {
	CreateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	GetRaffles(ctx context.Context) ([]domain.Raffle, error)
	GetRaffleByID(ctx context.Context, id string) (domain.Raffle, error)
	GetTickets(ctx context.Context, raffleID string) ([]domain.Ticket, error)
	CloseRaffle(ctx context.Context, raffleID string) error
}

type PurchaseService interface {
	Purchase(ctx context.Context, userID, raffleID string, ticketIDs []string) (domain.Purchase, error)
	ListPurchases(ctx context.Context, userID string) ([]domain.PurchaseWithRaffle, error)
}

type DrawService interface {
	Draw(ctx context.Context, raffleID string) (domain.Ticket, error)
}

type RaffleHandler struct {
	svc         RaffleService
	purchaseSvc PurchaseService
	drawSvc     DrawService
	uSvc        UserService
}

func NewRaffleHandler(svc RaffleService, purchaseSvc PurchaseService, drawSvc DrawService, uSvc UserService) *RaffleHandler {
	return &RaffleHandler{
		svc:         svc,
		purchaseSvc: purchaseSvc,
		drawSvc:     drawSvc,
		uSvc:        uSvc,
	}
}

// HandleGetRaffles godoc
// @Summary      List raffles
// @Tags         raffles
// @Produce      json
// @Success      200  {array}   domain.Raffle
// @Failure      500  {object}  response.Err
// @Router       /raffles [get]
func (h *RaffleHandler) HandleGetRaffles(ctx *gin.Context) {
	raffles, err := h.svc.GetRaffles(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRaffles -> h.svc.GetRaffles -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffles)
}

// HandleGetRaffle godoc
// @Summary      Get one raffle
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      string  true  "Raffle ID"
// @Success      200  {object}  domain.Raffle
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID} [get]
func (h *RaffleHandler) HandleGetRaffle(ctx *gin.Context) {
	raffleID := ctx.Param("raffleID")

	raffle, err := h.svc.GetRaffleByID(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRaffle -> h.svc.GetRaffleByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleGetTickets godoc
// @Summary      List a raffle's tickets, sorted by number
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      string  true  "Raffle ID"
// @Success      200  {array}   domain.Ticket
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets [get]
func (h *RaffleHandler) HandleGetTickets(ctx *gin.Context) {
	tickets, err := h.svc.GetTickets(ctx.Request.Context(), ctx.Param("raffleID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTickets -> h.svc.GetTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleCreateRaffle godoc
// @Summary      Create a raffle with its ticket inventory
// @Description  Admin only. Tickets 1..total_tickets are created AVAILABLE.
// @Tags         raffles
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateRaffleRequest  true  "Raffle details"
// @Success      201    {object}  domain.Raffle
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /raffles [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleCreateRaffle(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	var input request.CreateRaffleRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.CreateRaffle(ctx.Request.Context(), domain.Raffle{
		Title:          input.Title,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		PricePerTicket: input.PricePerTicket,
		TotalTickets:   input.TotalTickets,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateRaffle -> h.svc.CreateRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, raffle)
}

// HandlePurchase godoc
// @Summary      Buy tickets
// @Description  All-or-nothing: the buyer gets every requested ticket or none.
// @Tags         raffles
// @Accept       json
// @Produce      json
// @Param        raffleID  path      string                   true  "Raffle ID"
// @Param        input     body      request.PurchaseRequest  true  "Ticket selection"
// @Success      201  {object}  domain.Purchase
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      429  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/purchase [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandlePurchase(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.PurchaseRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	purchase, err := h.purchaseSvc.Purchase(ctx.Request.Context(), user.ID, ctx.Param("raffleID"), input.TicketIDs)
	if err != nil {
		h.renderPurchaseErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, purchase)
}

func (h *RaffleHandler) renderPurchaseErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrRaffleNotFound):
		response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", ctx.Param("raffleID")))
	case errors.Is(err, service.ErrTicketNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrRaffleNotActive):
		response.RenderErr(ctx, response.ErrConflict(response.CodeRaffleNotActive, err))
	case errors.Is(err, service.ErrTicketUnavailable):
		response.RenderErr(ctx, response.ErrConflict(response.CodeTicketUnavailable, err))
	case errors.Is(err, service.ErrLockTimeout):
		response.RenderErr(ctx, response.ErrTooManyRequests(err))
	default:
		err = fmt.Errorf("v1.HandlePurchase -> h.purchaseSvc.Purchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleGetPurchases godoc
// @Summary      List the caller's purchases with their raffles, newest first
// @Tags         purchases
// @Produce      json
// @Success      200  {array}   domain.PurchaseWithRaffle
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /purchases [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetPurchases(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchases, err := h.purchaseSvc.ListPurchases(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPurchases -> h.purchaseSvc.ListPurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchases)
}

// HandleDraw godoc
// @Summary      Draw the raffle winner
// @Description  Admin only. Picks uniformly among sold tickets, exactly once.
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      string  true  "Raffle ID"
// @Success      200  {object}  domain.Ticket
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/draw [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDraw(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	raffleID := ctx.Param("raffleID")

	winner, err := h.drawSvc.Draw(ctx.Request.Context(), raffleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
		case errors.Is(err, service.ErrAlreadyDrawn):
			response.RenderErr(ctx, response.ErrConflict(response.CodeAlreadyDrawn, err))
		case errors.Is(err, service.ErrRaffleNotActive):
			response.RenderErr(ctx, response.ErrConflict(response.CodeRaffleNotActive, err))
		case errors.Is(err, service.ErrNoSoldTickets):
			response.RenderErr(ctx, response.ErrConflict(response.CodeNoSoldTickets, err))
		case errors.Is(err, service.ErrLockTimeout):
			response.RenderErr(ctx, response.ErrTooManyRequests(err))
		default:
			err = fmt.Errorf("v1.HandleDraw -> h.drawSvc.Draw -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, winner)
}

// HandleCloseRaffle godoc
// @Summary      Close a raffle without drawing
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      string  true  "Raffle ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/close [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleCloseRaffle(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	raffleID := ctx.Param("raffleID")

	if err := h.svc.CloseRaffle(ctx.Request.Context(), raffleID); err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
		case errors.Is(err, service.ErrAlreadyDrawn):
			response.RenderErr(ctx, response.ErrConflict(response.CodeAlreadyDrawn, err))
		case errors.Is(err, service.ErrRaffleNotActive):
			response.RenderErr(ctx, response.ErrConflict(response.CodeRaffleNotActive, err))
		default:
			err = fmt.Errorf("v1.HandleCloseRaffle -> h.svc.CloseRaffle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "raffle closed"})
}
