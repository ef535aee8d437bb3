package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensert/internal/errors"
	"expensert/internal/logger"
)

// kindStatus is the fallback HTTP status for an error kind, used when an
// AppError does not carry its own.
var kindStatus = map[apperrors.Kind]int{
	apperrors.KindValidation: http.StatusBadRequest,
	apperrors.KindFormat:     http.StatusBadRequest,
	apperrors.KindNotFound:   http.StatusNotFound,
	apperrors.KindConflict:   http.StatusConflict,
	apperrors.KindInternal:   http.StatusInternalServerError,
}

// ErrorHandler renders the last error recorded on the Gin context as the
// standard error envelope, unless the handler already wrote a response.
//
// The error's kind decides how loudly it is logged. Client mistakes
// (validation, format, not found, conflict) are logged at debug level;
// internal failures are logged at error level with their cause, and
// errors that are not AppErrors are reported as INTERNAL_ERROR so their
// text never reaches the client. Gin binding errors count as validation.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ginErr := c.Errors.Last()
		appErr := asAppError(ginErr)
		kind := apperrors.KindOf(appErr)

		log := logger.Get().With(
			"code", appErr.Code,
			"kind", kind,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		if kind == apperrors.KindInternal {
			cause := ginErr.Err
			if appErr.Internal != nil {
				cause = appErr.Internal
			}
			log.Errorw("request failed", "error", cause.Error())
		} else {
			log.Debugw("request rejected", "message", appErr.Message)
		}

		status := appErr.StatusCode
		if status == 0 {
			status = kindStatus[kind]
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

func asAppError(ginErr *gin.Error) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(ginErr.Err, &appErr):
		return appErr
	case ginErr.IsType(gin.ErrorTypeBind):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, ginErr.Err.Error())
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, ginErr.Err)
	}
}
