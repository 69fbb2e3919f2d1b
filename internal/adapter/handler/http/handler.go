package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/runecoins/coinstore/internal/core/domain"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrInvalidCredentials: http.StatusUnauthorized,
	domain.ErrUnauthorized:       http.StatusUnauthorized,
	domain.ErrEmptySession:       http.StatusUnauthorized,
	domain.ErrInvalidToken:       http.StatusUnauthorized,
	domain.ErrExpiredToken:       http.StatusUnauthorized,
	domain.ErrForbidden:          http.StatusForbidden,

	domain.ErrNoUpdatedData: http.StatusBadRequest,
	domain.ErrBadRequest:    http.StatusBadRequest,

	domain.ErrQuantityOutOfRange:  http.StatusBadRequest,
	domain.ErrAmountBelowMinimum:  http.StatusBadRequest,
	domain.ErrMissingCardFields:   http.StatusBadRequest,
	domain.ErrMissingEvidence:     http.StatusBadRequest,
	domain.ErrSellNotPayable:      http.StatusBadRequest,
	domain.ErrPackageNotAvailable: http.StatusBadRequest,
	domain.ErrUnsupportedMethod:   http.StatusBadRequest,
	domain.ErrInvalidTransition:   http.StatusUnprocessableEntity,
	domain.ErrOrderNotDeletable:   http.StatusBadRequest,
	domain.ErrWebhookSignature:    http.StatusUnauthorized,
}

type errorResponse struct {
	Error   string        `json:"error"`
	Details []fieldDetail `json:"details,omitempty"`
}

type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends a 400 with a field-level detail list when
// the binding error carries one.
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	resp := errorResponse{Error: "invalid request data"}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Details = append(resp.Details, fieldDetail{
				Field:   fe.Field(),
				Message: fe.Tag(),
			})
		}
	}

	ctx.JSON(http.StatusBadRequest, resp)
}

// handleAbort sends an error response and aborts the request with the specified status code
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Error: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		ctx.JSON(http.StatusInternalServerError, errorResponse{Error: gwErr.Error()})
		return
	}

	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
		h.logger.Error("error processing request", zap.Error(err))
		ctx.JSON(statusCode, errorResponse{Error: domain.ErrInternal.Error()})
		return
	}
	ctx.JSON(statusCode, errorResponse{Error: err.Error()})
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
