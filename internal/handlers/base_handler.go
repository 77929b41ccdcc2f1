package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinc-lab/institute-service/internal/services"
	"github.com/sinc-lab/institute-service/internal/utils"
	"github.com/sinc-lab/institute-service/internal/validator"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error            string                     `json:"error"`
	Message          string                     `json:"message"`
	Details          interface{}                `json:"details,omitempty"`
	ValidationErrors validator.ValidationErrors `json:"validation_errors,omitempty"`
}

// BaseHandler provides shared logging and error translation.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
	h.logger.Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
	h.logger.Error(msg, args...)
}

// RespondError maps the service error taxonomy onto HTTP statuses.
func (h *BaseHandler) RespondError(c *gin.Context, err error, msg string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:            "validation_failed",
			Message:          msg,
			ValidationErrors: verrs,
		})
		return
	}

	switch {
	case services.IsAuthenticationError(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
	case services.IsAuthorizationError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
	case services.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrAccountNotFound), errors.Is(err, services.ErrContentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		h.LogError(c, err, msg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: msg,
		})
	}
}
