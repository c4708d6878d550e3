package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// replayedResponse is the cached body and status for a previously seen
// idempotency key.
type replayedResponse struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseStore is the slice of the Redis client the middleware needs.
// *redis.Client satisfies it.
type ResponseStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Idempotency replays the stored response for mutating requests carrying a
// previously seen Idempotency-Key header. Requests without the header pass
// through untouched, as do all requests when Redis is unavailable.
func Idempotency(store ResponseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + key

		data, err := store.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached replayedResponse
			if json.Unmarshal(data, &cached) == nil {
				c.Data(cached.StatusCode, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		// 5xx responses are not replayed so the client can retry.
		status := c.Writer.Status()
		if status >= 200 && status < 500 {
			payload, err := json.Marshal(replayedResponse{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.buf.Bytes(),
			})
			if err == nil {
				_ = store.Set(ctx, cacheKey, payload, idempotencyTTL).Err()
			}
		}
	}
}
