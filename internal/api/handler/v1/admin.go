package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rifamaster/rifa-api/internal/api/handler/v1/response"
	"github.com/rifamaster/rifa-api/internal/domain"
)

type StatsService interface {
	Snapshot(ctx context.Context) (domain.DashboardStats, error)
	Export(ctx context.Context) (domain.Backup, error)
}

type AdminHandler struct {
	svc  StatsService
	uSvc UserService
}

func NewAdminHandler(svc StatsService, uSvc UserService) *AdminHandler {
	return &AdminHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func (h *AdminHandler) requireAdmin(ctx *gin.Context) bool {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return false
	}

	if !user.IsAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return false
	}

	return true
}

// HandleGetStats godoc
// @Summary      Dashboard statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.DashboardStats
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/stats [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetStats(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	stats, err := h.svc.Snapshot(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetStats -> h.svc.Snapshot -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleExport godoc
// @Summary      Export a full backup snapshot of all collections
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.Backup
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/export [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleExport(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	backup, err := h.svc.Export(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleExport -> h.svc.Export -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, backup)
}
