package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes surfaced to callers. The UI relies on the distinction
// between TICKET_UNAVAILABLE ("pick different numbers") and
// RAFFLE_NOT_ACTIVE ("this raffle has closed").
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeNotFound          = "NOT_FOUND"
	CodeRaffleNotActive   = "RAFFLE_NOT_ACTIVE"
	CodeTicketUnavailable = "TICKET_UNAVAILABLE"
	CodeAlreadyDrawn      = "ALREADY_DRAWN"
	CodeNoSoldTickets     = "NO_SOLD_TICKETS"
	CodeBusy              = "BUSY"
	CodeInternalError     = "INTERNAL_ERROR"
)

type Err struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`

	err error
}

func (e *Err) Error() string {
	return fmt.Sprintf("%v: %v", e.Code, e.Message)
}

func (e *Err) Unwrap() error {
	return e.err
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("server error", zap.Error(err))
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		Code:       CodeBadRequest,
		Message:    err.Error(),
		err:        err,
	}
}

func ErrUnauthorized(msg string) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeUnauthorized,
		Message:    msg,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		Code:       CodePermissionDenied,
		Message:    err.Error(),
		err:        err,
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%v with %v %v not found", resource, key, value),
	}
}

// ErrConflict reports a state conflict with a caller-distinguishable
// code (raffle closed, ticket already sold, raffle already drawn...).
func ErrConflict(code string, err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Code:       code,
		Message:    err.Error(),
		err:        err,
	}
}

func ErrTooManyRequests(err error) *Err {
	return &Err{
		StatusCode: http.StatusTooManyRequests,
		Code:       CodeBusy,
		Message:    err.Error(),
		err:        err,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "internal server error",
		err:        err,
	}
}
