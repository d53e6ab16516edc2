package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenericErrorMessage 兜底错误响应内容
const GenericErrorMessage = "Something went wrong!"

// ErrorHandler 错误处理中间件
//
// 处理器通过 c.Error 上报、但自身没有写出响应的错误，统一返回
// 500 {"error":"Something went wrong!"}。已写出响应的请求只记录日志。
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		logger.Error("HTTP error",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))

		if c.Writer.Written() {
			return
		}
		WriteError(c, http.StatusInternalServerError, GenericErrorMessage)
	}
}

// Recovery 最后一道防线：处理链中任何位置的panic都转换为500兜底响应
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("[PANIC] 请求处理异常",
					zap.String("request_id", GetRequestID(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stack"))

				if c.Writer.Written() {
					c.Abort()
					return
				}
				WriteError(c, http.StatusInternalServerError, GenericErrorMessage)
			}
		}()
		c.Next()
	}
}

// WriteError 写入 {"error": message} 响应并中止处理链
func WriteError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
