package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit 登录/注册接口限流中间件
// 每 IP 在 window 内最多 maxAttempts 次，超过返回 429；过期记录在请求时顺带清理
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		attempts  = make(map[string][]time.Time)
		lastSweep time.Time
	)

	prune := func(ts []time.Time, cutoff time.Time) []time.Time {
		kept := ts[:0]
		for _, t := range ts {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		return kept
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		cutoff := now.Add(-window)

		mu.Lock()
		if now.Sub(lastSweep) > window {
			for key, ts := range attempts {
				if kept := prune(ts, cutoff); len(kept) == 0 {
					delete(attempts, key)
				} else {
					attempts[key] = kept
				}
			}
			lastSweep = now
		}

		ts := prune(attempts[ip], cutoff)
		if len(ts) >= maxAttempts {
			attempts[ip] = ts
			mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many login attempts, please try again later",
			})
			c.Abort()
			return
		}
		attempts[ip] = append(ts, now)
		mu.Unlock()
		c.Next()
	}
}
