package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// ResponseStore is the slice of the redis client the idempotency middleware
// uses to keep completed responses.
type ResponseStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ ResponseStore = (*redis.Client)(nil)

// replayedResponse is the stored form of a completed response.
type replayedResponse struct {
	Status      int             `json:"status"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// bodyCapture duplicates everything written to the response into a buffer.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key instead of re-executing the handler, so a retried
// rental or payment request cannot reserve a second unit or open a
// second checkout session. Keys are scoped to the authenticated actor
// and the route; two users reusing the same key never see each other's
// responses. Must run after AuthMiddleware.
func IdempotencyMiddleware(store ResponseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		actor, _ := ActorFromContext(c)
		ctx := c.Request.Context()
		storeKey := fmt.Sprintf("idem:%s:%s:%s:%s", actor.UserID, c.Request.Method, c.FullPath(), key)

		if data, err := store.Get(ctx, storeKey).Bytes(); err == nil {
			var prior replayedResponse
			if json.Unmarshal(data, &prior) == nil {
				c.Data(prior.Status, prior.ContentType, prior.Body)
				c.Abort()
				return
			}
		}
		// A store miss or error falls through: the request runs, it just
		// isn't replayable.

		w := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// Server errors stay unstored so the client can retry them.
		if w.Status() >= http.StatusInternalServerError {
			return
		}
		data, err := json.Marshal(replayedResponse{
			Status:      w.Status(),
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.buf.Bytes(),
		})
		if err != nil {
			return
		}
		_ = store.Set(ctx, storeKey, data, idempotencyTTL).Err()
	}
}
