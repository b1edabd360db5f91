package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader names the client-chosen submission key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// DuplicateSubmissionGuard rejects a repeated mutating request carrying an
// Idempotency-Key already seen within ttl. A key whose request failed with a
// 5xx is released so the user can retry. Requests without the header pass.
func DuplicateSubmissionGuard(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = shared.DefaultSubmissionTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || !isMutation(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		storeKey := submissionKey(c, key)
		ctx := c.Request.Context()
		fresh, err := store.MarkProcessed(ctx, storeKey, ttl)
		if err != nil {
			// the guard is best effort; a store outage must not block writes
			log.Warn("Idempotency store unavailable", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			c.Next()
			return
		}
		if !fresh {
			abortWithError(c, dto.ErrCodeDuplicateSubmission, "This request was already submitted")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			if err := store.Release(ctx, storeKey); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			}
		}
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// submissionKey scopes the client key to the caller and the endpoint
func submissionKey(c *gin.Context, key string) string {
	caller := GetJWTUserID(c)
	if caller == "" {
		caller = c.ClientIP()
	}
	return "submission:" + caller + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
}
