package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

// ErrorResponse is the JSON body of non-HTML failures
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries the logger every handler shares
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Logger returns the request-scoped logger
func (h *BaseHandler) Logger(c *gin.Context) utils.Logger {
	return utils.GetLogger(c, h.logger)
}

// LogRequest logs the start of an operation
func (h *BaseHandler) LogRequest(c *gin.Context, operation string, args ...any) {
	h.Logger(c).Info(operation, append(args, "client_id", c.GetString(clientIDKey))...)
}

// LogError logs a failed operation and records it on the gin context
func (h *BaseHandler) LogError(c *gin.Context, err error, operation string, args ...any) {
	h.Logger(c).Error(operation, append(args, "error", err)...)
	_ = c.Error(err)
}
