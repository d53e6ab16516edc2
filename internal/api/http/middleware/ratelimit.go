package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimit 按客户端IP的令牌桶限流中间件
// 长时间未出现的客户端条目会被定期清理
type RateLimit struct {
	logger  *zap.Logger
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimit 创建限流中间件
// rps 或 burst 非正数时返回nil，表示不限流
func NewRateLimit(logger *zap.Logger, rps float64, burst int, idleTTL time.Duration) *RateLimit {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &RateLimit{
		logger:  logger,
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		byKey:   make(map[string]*limiterEntry),
	}
}

// Middleware 返回Gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if m.Allow(clientID, time.Now()) {
			c.Next()
			return
		}

		if m.logger != nil {
			m.logger.Warn("请求被限流",
				zap.String("request_id", GetRequestID(c)),
				zap.String("client_ip", clientID),
				zap.String("path", c.Request.URL.Path))
		}
		c.Header("Retry-After", strconv.Itoa(m.retryAfterSeconds()))
		WriteError(c, http.StatusTooManyRequests, "Request rate limit exceeded")
	}
}

// Allow 判断该客户端此刻能否消费一个令牌
func (m *RateLimit) Allow(key string, now time.Time) bool {
	if m == nil {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	m.hits++
	if m.hits%512 == 0 {
		cutoff := now.Add(-m.idleTTL)
		for k, v := range m.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(m.byKey, k)
			}
		}
	}

	return allowed
}

func (m *RateLimit) retryAfterSeconds() int {
	seconds := int(1 / float64(m.limit))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// size 当前跟踪的客户端数量
func (m *RateLimit) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}
