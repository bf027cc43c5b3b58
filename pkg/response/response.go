package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/pkg/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Code      string      `json:"code,omitempty"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

// Error writes the failure envelope and aborts the handler chain.
func Error(ctx *gin.Context, status int, code apperror.Code, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Code:      string(code),
		Error:     details,
	})
}

// FromError maps err onto its HTTP status and public message.
// Errors without a code are treated as internal and never leak their text.
func FromError(ctx *gin.Context, logger *logrus.Logger, err error) {
	typed := apperror.As(err)
	code := apperror.CodeInternal
	if typed != nil {
		code = typed.Code()
	}
	meta := apperror.MetadataFor(code)

	message := meta.PublicMessage
	if typed != nil && meta.ShowMessage && typed.Message() != "" {
		message = typed.Message()
	}
	var details interface{}
	if typed != nil && meta.DetailsAllowed {
		details = typed.Details()
	}

	if logger != nil && meta.HTTPStatus >= http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"path":       ctx.FullPath(),
			"code":       code,
			"error":      err.Error(),
		}).Error("request failed")
	}
	Error(ctx, meta.HTTPStatus, code, message, details)
}
