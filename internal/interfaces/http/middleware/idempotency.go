package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/dto"
)

const (
	// IdempotencyKeyHeader lets clients retry a generate request safely
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyKeyCtx    = "idempotency_key"
	maxIdempotencyKeyLen = 128
)

// IdempotencyKey validates the optional Idempotency-Key header and stores it
// for handlers. Keys must be 1-128 printable ASCII characters.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		if !validIdempotencyKey(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				"Idempotency-Key must be 1-128 printable ASCII characters",
				GetRequestID(c),
			))
			return
		}
		c.Set(idempotencyKeyCtx, key)
		c.Next()
	}
}

func validIdempotencyKey(key string) bool {
	if len(key) > maxIdempotencyKeyLen {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 0x21 || key[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetIdempotencyKey returns the validated Idempotency-Key, or ""
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(idempotencyKeyCtx)
}
