package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitMessage はレートリミット超過時に返す固定メッセージ。
const RateLimitMessage = "Too many requests from this IP, please try again after 15 minutes"

// RateLimitStore は固定ウィンドウのカウンタを保持するストア。
// Increment はキーのカウンタを1増やし、増加後の値とウィンドウのリセット時刻を返す。
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// RateLimitConfig はRateLimitミドルウェアの設定。
type RateLimitConfig struct {
	// Max は1ウィンドウ内で許可するリクエスト数。
	Max int
	// Window はカウンタのリセット間隔。
	Window time.Duration
	// Store はカウンタの保存先。
	Store RateLimitStore
	// SkipPaths はレートリミットの対象外とするパス。
	SkipPaths []string
	// OnLimited はリクエストを拒否したときに呼ばれる。nilでもよい。
	OnLimited func()
}

// RateLimit はクライアントIPごとに固定ウィンドウでリクエスト数を制限するGinミドルウェアを返す。
// ストアが失敗した場合はリクエストを通過させる。
func RateLimit(cfg RateLimitConfig, logger zerolog.Logger) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	limit := strconv.Itoa(cfg.Max)

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP()
		count, resetAt, err := cfg.Store.Increment(c.Request.Context(), key, cfg.Window)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("レートリミットストアの更新に失敗、リクエストを通過させる")
			c.Next()
			return
		}

		remaining := max(int64(cfg.Max)-count, 0)
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > int64(cfg.Max) {
			retryAfter := int64(math.Ceil(time.Until(resetAt).Seconds()))
			h.Set("Retry-After", strconv.FormatInt(max(retryAfter, 0), 10))
			if cfg.OnLimited != nil {
				cfg.OnLimited()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": RateLimitMessage})
			return
		}
		c.Next()
	}
}

// MemoryStore はプロセス内で完結する固定ウィンドウのカウンタストア。
// 単一インスタンスのGateway向け。
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
	// sweepAt は次に期限切れエントリを掃除する時刻。
	sweepAt time.Time
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

var _ RateLimitStore = (*MemoryStore)(nil)

// NewMemoryStore は新しいMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

// Increment はキーのカウンタを1増やす。ウィンドウが終了していれば新しいウィンドウを開始する。
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.After(s.sweepAt) {
		for k, w := range s.windows {
			if !now.Before(w.resetAt) {
				delete(s.windows, k)
			}
		}
		s.sweepAt = now.Add(window)
	}

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt, nil
}

// RedisStore はRedisのINCRとEXPIREで固定ウィンドウを実現するストア。
// 複数のGatewayインスタンスでカウンタを共有できる。
type RedisStore struct {
	client redis.UniversalClient
}

var _ RateLimitStore = (*RedisStore)(nil)

// NewRedisStore は指定したRedisクライアントを使うRedisStoreを生成する。
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Increment はキーのカウンタを1増やす。ウィンドウの最初のリクエストでTTLを設定する。
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("カウンタの加算に失敗: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("TTLの設定に失敗: %w", err)
		}
		return count, time.Now().Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("TTLの取得に失敗: %w", err)
	}
	// EXPIREの前にプロセスが落ちるとTTLの無いキーが残るため、ここで設定し直す。
	if ttl < 0 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("TTLの設定に失敗: %w", err)
		}
		ttl = window
	}
	return count, time.Now().Add(ttl), nil
}
