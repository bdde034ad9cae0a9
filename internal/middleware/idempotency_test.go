package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"carshare/internal/domain"
)

// fakeResponseStore is an in-memory ResponseStore.
type fakeResponseStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{data: make(map[string]string)}
}

func (f *fakeResponseStore) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeResponseStore) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

// newIdempotentRouter builds a router with one guarded POST route. The
// actor is taken from the X-Test-User header, standing in for the auth
// middleware. Each handler invocation bumps calls and is numbered in the
// response body, so a replayed response is distinguishable from a re-run.
func newIdempotentRouter(store ResponseStore, calls *int32) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/v1/payments",
		func(c *gin.Context) {
			c.Set(actorContextKey, domain.Actor{UserID: c.GetHeader("X-Test-User"), Role: domain.RoleCustomer})
		},
		IdempotencyMiddleware(store),
		func(c *gin.Context) {
			n := atomic.AddInt32(calls, 1)
			c.JSON(http.StatusCreated, gin.H{"attempt": n})
		})
	return router
}

func doPost(t *testing.T, router *gin.Engine, userID, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments", nil)
	req.Header.Set("X-Test-User", userID)
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysRepeatedKey(t *testing.T) {
	t.Parallel()

	var calls int32
	router := newIdempotentRouter(newFakeResponseStore(), &calls)

	first := doPost(t, router, "user-1", "key-1")
	second := doPost(t, router, "user-1", "key-1")

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("handler ran %d times, want 1", got)
	}
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("statuses = %d, %d, want both %d", first.Code, second.Code, http.StatusCreated)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replayed body %q differs from original %q", second.Body.String(), first.Body.String())
	}
}

func TestIdempotency_KeysScopedPerActor(t *testing.T) {
	t.Parallel()

	var calls int32
	router := newIdempotentRouter(newFakeResponseStore(), &calls)

	first := doPost(t, router, "user-1", "shared-key")
	second := doPost(t, router, "user-2", "shared-key")

	// The second user picked the same key but must get their own response,
	// not a replay of the first user's.
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("handler ran %d times, want 2", got)
	}
	if first.Body.String() == second.Body.String() {
		t.Errorf("second user received first user's response: %q", second.Body.String())
	}
}

func TestIdempotency_NoKeyRunsEveryTime(t *testing.T) {
	t.Parallel()

	var calls int32
	router := newIdempotentRouter(newFakeResponseStore(), &calls)

	doPost(t, router, "user-1", "")
	doPost(t, router, "user-1", "")

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("handler ran %d times, want 2", got)
	}
}
