package recipe

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe-hub/internal/pkg/common"
)

func respondError(c *gin.Context, err error) {
	c.JSON(common.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  common.ErrorCode(err),
	})
	c.Abort()
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("recipe id must be a positive integer")
	}
	return id, nil
}
