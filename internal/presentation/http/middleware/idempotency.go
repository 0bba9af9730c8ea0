package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/entity"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/domain/repository"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/response"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/tenantctx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL is how long a reservation survives a request that never finished
	IdempotencyPendingTTL = time.Minute

	maxIdempotencyKeyLength = 255
	idempotencyInProgress   = "A request with this Idempotency-Key is still in progress"
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
	// PendingTTL bounds how long an unfinished request holds its key
	PendingTTL time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a create request is retried
// with the same Idempotency-Key within the tenant. The key is reserved before
// the handler runs, so a concurrent duplicate gets 409 instead of creating a
// second document. Only successful responses are kept; a failed attempt
// releases the key so it can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	if config.TTL <= 0 {
		config.TTL = IdempotencyKeyTTL
	}
	if config.PendingTTL <= 0 {
		config.PendingTTL = IdempotencyPendingTTL
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		tenantID, ok := tenantctx.TenantID(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(ctx, key, tenantID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if existing != nil {
			if !existing.IsExpired(config.Now()) {
				switch {
				case existing.Endpoint != endpoint:
					response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
				case existing.IsPending():
					response.ErrorWithCode(c, http.StatusConflict, idempotencyInProgress)
				default:
					c.Header("X-Idempotency-Replayed", "true")
					c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				}
				c.Abort()
				return
			}
			if err := config.Repo.Delete(ctx, tenantID, key); err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
		}

		reservation := &entity.IdempotencyKey{
			Key:       key,
			TenantID:  tenantID,
			Endpoint:  endpoint,
			ExpiresAt: config.Now().Add(config.PendingTTL),
		}
		if err := config.Repo.Create(ctx, reservation); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				response.ErrorWithCode(c, http.StatusConflict, idempotencyInProgress)
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// The request context may already be cancelled once the handler returns
		storeCtx := context.WithoutCancel(ctx)
		fields := []zap.Field{
			zap.String("tenant_id", tenantID.String()),
			zap.String("endpoint", endpoint),
		}

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Delete(storeCtx, tenantID, key); err != nil {
				config.Logger.Warn("failed to release idempotency key", append(fields, zap.Error(err))...)
			}
			return
		}

		reservation.ResponseCode = status
		reservation.ResponseBody = blw.body.String()
		reservation.ExpiresAt = config.Now().Add(config.TTL)
		if err := config.Repo.Save(storeCtx, reservation); err != nil {
			config.Logger.Warn("failed to store idempotency key", append(fields, zap.Error(err))...)
		}
	}
}
