package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "expensert/internal/errors"
	"expensert/internal/validator"
)

// NamespaceHeader selects the ledger a request operates on.
const NamespaceHeader = "X-Ledger-Namespace"

// NamespaceKey is the gin context key holding the resolved namespace.
const NamespaceKey = "namespace"

// Namespace returns a Gin middleware that resolves the ledger namespace from
// the X-Ledger-Namespace header, falling back to defaultNamespace. Requests
// naming an invalid namespace are rejected before reaching a handler.
func Namespace(defaultNamespace string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns := strings.TrimSpace(c.GetHeader(NamespaceHeader))
		if ns == "" {
			ns = defaultNamespace
		}
		if !validator.IsNamespace(ns) {
			err := apperrors.ErrInvalidNamespace
			c.AbortWithStatusJSON(err.StatusCode,
				gin.H{"error": gin.H{"code": err.Code, "message": err.Message}})
			return
		}
		c.Set(NamespaceKey, ns)
		c.Next()
	}
}
