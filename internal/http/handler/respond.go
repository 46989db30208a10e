package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallbiznis/orgspace-auth/internal/service"
)

func respondSuccess(c *gin.Context, status int, message string, data any) {
	body := gin.H{"status": "success", "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps service errors onto the response envelope: validation
// failures carry the full field list, expected failures carry their own
// status text, anything else is a generic 500.
func respondError(c *gin.Context, err error) {
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": valErr.Fields})
		return
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.Code, gin.H{
			"status":     svcErr.Status,
			"message":    svcErr.Message,
			"statusCode": svcErr.Code,
		})
		return
	}

	zap.L().Error("unexpected handler error", zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error"})
}

func respondBadRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":     "Bad Request",
		"message":    "Client error",
		"statusCode": http.StatusBadRequest,
	})
}
