package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求ID请求/响应头
	RequestIDHeader = "X-Request-ID"

	// requestIDKey gin上下文中的请求ID键
	requestIDKey = "request_id"

	// FunctionNameKey 调度器写入的合约函数名，访问日志读取
	FunctionNameKey = "function_name"

	// maxRequestIDLength 超长的外部请求ID直接替换
	maxRequestIDLength = 128
)

// RequestID 请求ID中间件
// 沿用调用方传入的 X-Request-ID，缺失时生成UUID
type RequestID struct{}

// NewRequestID 创建请求ID中间件
func NewRequestID() *RequestID {
	return &RequestID{}
}

// Middleware 返回Gin中间件
func (m *RequestID) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID 获取当前请求ID
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok2 := v.(string); ok2 && s != "" {
			return s
		}
	}
	return c.GetHeader(RequestIDHeader)
}
