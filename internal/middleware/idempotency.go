package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// storedResponse is the cached reply for an idempotency key.
type storedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// captureWriter wraps gin.ResponseWriter to record the response body.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a mutating request repeats
// its Idempotency-Key. Keys live for 24 hours; requests without a key pass
// through untouched.
func Idempotency(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch && c.Request.Method != http.MethodDelete {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "inride:idempotency:" + key

		stored, err := getStoredResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			// Redis trouble must not block the request.
			c.Next()
			return
		}

		if stored != nil {
			for k, values := range stored.Headers {
				for _, v := range values {
					c.Header(k, v)
				}
			}
			c.Data(stored.StatusCode, "application/json", stored.Body)
			c.Abort()
			return
		}

		w := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// 5xx responses are not cached so the client can retry.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			response := storedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    cacheableHeaders(c),
			}
			_ = setStoredResponse(ctx, redisClient, cacheKey, &response, idempotencyTTL)
		}
	}
}

func getStoredResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

func setStoredResponse(ctx context.Context, client *redis.Client, key string, response *storedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, ttl).Err()
}

func cacheableHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
