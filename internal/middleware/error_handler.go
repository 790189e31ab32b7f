package middleware

import (
	"setoran/internal/apperror"
	"setoran/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperror.From(c.Errors.Last().Err)
		status := apperror.HTTPStatus(appErr.Kind)

		message := appErr.Message
		if appErr.Kind == apperror.KindInternal {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(appErr.Err),
			)
			message = "internal server error"
		}

		c.JSON(status, response.Error(string(appErr.Kind), message))
	}
}
