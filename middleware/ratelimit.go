package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// slidingWindow 按 key 记录窗口内的请求时间
type slidingWindow struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
}

func newSlidingWindow(window time.Duration) *slidingWindow {
	return &slidingWindow{window: window, hits: make(map[string][]time.Time)}
}

// allow 记录一次请求，超过 max 返回 false
func (w *slidingWindow) allow(key string, max int, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	kept := prune(w.hits[key], now.Add(-w.window))
	if len(kept) >= max {
		w.hits[key] = kept
		return false
	}
	w.hits[key] = append(kept, now)
	return true
}

// sweep 清理所有过期记录
func (w *slidingWindow) sweep(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for key, ts := range w.hits {
		kept := prune(ts, now.Add(-w.window))
		if len(kept) == 0 {
			delete(w.hits, key)
		} else {
			w.hits[key] = kept
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// RateLimit 每个 key 在 window 内最多 maxAttempts 次，超过返回 429
// keyFunc 为 nil 时按客户端 IP 限流
func RateLimit(maxAttempts int, window time.Duration, message string, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	store := newSlidingWindow(window)

	// 定期清理过期数据
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			store.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		if !store.allow(keyFunc(c), maxAttempts, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRateLimit 登录/注册接口按 IP 限流
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	return RateLimit(maxAttempts, window, "登录尝试过于频繁，请稍后再试", nil)
}

// PerUserRateLimit 按当前登录用户限流，用于发送提醒邮件等接口
func PerUserRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	return RateLimit(maxAttempts, window, "操作过于频繁，请稍后再试", func(c *gin.Context) string {
		if id := GetCurrentUserID(c); id != 0 {
			return "user:" + strconv.FormatUint(uint64(id), 10)
		}
		return "ip:" + c.ClientIP()
	})
}
