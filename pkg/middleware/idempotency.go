package middleware

import (
	"context"
	"net/http"
	"time"

	"inventory-service/internal/cache"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const idempotencyKeyPrefix = "idempotency:"

// pendingResponse marks a key whose first request has not finished yet
var pendingResponse = []byte(`{"status":0}`)

// storedResponse is what gets replayed for a repeated X-Request-ID
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyMiddleware replays the stored response when a write request
// repeats a client-supplied X-Request-ID. The key is reserved before the
// handler runs, so a concurrent duplicate gets 409 instead of executing twice.
// Only 2xx responses are kept; anything else releases the key.
// Must run after RequestIDMiddleware and after any auth middleware, whose
// username becomes part of the key.
func IdempotencyMiddleware(store cache.Cache, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteMethod(c.Request.Method) || !c.GetBool(requestIDProvidedKey) {
			c.Next()
			return
		}

		requestID := GetRequestID(c)
		key := idempotencyKeyPrefix + c.GetString("username") + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + requestID
		ctx := c.Request.Context()

		reserved, err := store.SetNX(ctx, key, pendingResponse, ttl)
		if err != nil {
			logger.Warn("Idempotency store unavailable, handling request without it",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !reserved {
			replay(c, store, key, logger)
			return
		}

		writer := &responseWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		stored := false
		defer func() {
			if stored {
				return
			}
			if err := store.Delete(context.Background(), key); err != nil {
				logger.Warn("Failed to release idempotency key", zap.String("request_id", requestID), zap.Error(err))
			}
		}()

		c.Next()

		status := writer.Status()
		if len(c.Errors) > 0 || !writer.Written() || status < 200 || status >= 300 || len(writer.body) == 0 {
			return
		}
		record := storedResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body,
		}
		if err := cache.SetJSON(ctx, store, key, record, ttl); err != nil {
			logger.Warn("Failed to store response for idempotency",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return
		}
		stored = true
	}
}

// replay answers a repeated request from the stored response, or with 409
// while the first request is still running
func replay(c *gin.Context, store cache.Cache, key string, logger *zap.Logger) {
	var cached storedResponse
	err := cache.GetJSON(c.Request.Context(), store, key, &cached)
	if err != nil || cached.Status == 0 {
		stdErr := errors.NewConflict("request already in progress", "X-Request-ID: "+GetRequestID(c))
		c.AbortWithStatusJSON(stdErr.HTTPStatus(), stdErr)
		return
	}

	logger.Info("Duplicate request detected, returning cached response",
		zap.String("request_id", GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.Data(cached.Status, cached.ContentType, cached.Body)
	c.Abort()
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}
