package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hr-platform-api/utils"
)

// respondError writes an AppError as the standard error envelope. Internal
// errors keep their message for operator debugging but are also logged.
func respondError(c *gin.Context, appErr *utils.AppError) {
	if appErr.Status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %s", c.Request.Method, c.Request.URL.Path, appErr.Message)
	}
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"code":    appErr.Code,
		"error":   appErr.Message,
	})
}

func currentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}
