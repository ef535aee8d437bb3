package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "expensert/internal/errors"
	"expensert/internal/logger"
	"expensert/internal/middleware"
	"expensert/internal/models"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// getNamespace extracts the ledger namespace resolved by the namespace
// middleware. Returns ErrInvalidNamespace if not present.
func getNamespace(c *gin.Context) (string, error) {
	ns := c.GetString(middleware.NamespaceKey)
	if ns == "" {
		return "", apperrors.ErrInvalidNamespace
	}
	return ns, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, param string) (models.Date, error) {
	v := strings.TrimSpace(c.Query(param))
	if v == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return models.Date{}, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" must be a date (YYYY-MM-DD)")
	}
	return d, nil
}

// queryDecimal parses an optional decimal query parameter.
func queryDecimal(c *gin.Context, param string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(c.Query(param))
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" must be a number")
	}
	if !models.AmountInRange(d) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" is out of range")
	}
	return &d, nil
}

// queryInt parses an optional integer query parameter, returning def when
// it is absent.
func queryInt(c *gin.Context, param string, def int) (int, error) {
	v := strings.TrimSpace(c.Query(param))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" must be an integer")
	}
	return n, nil
}

// queryMonth reads month and year query parameters, defaulting to the
// month of now.
func queryMonth(c *gin.Context, now time.Time) (time.Month, int, error) {
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	return time.Month(month), year, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
