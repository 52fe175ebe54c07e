package handlers

import (
	"strconv"

	"trendz_shop/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive numeric path parameter. On failure it attaches a
// validation error and reports false.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(apperrors.Validation("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// parsePage reads the page and limit query parameters. Missing values are
// left at zero for the service to default.
func parsePage(c *gin.Context) (int, int, bool) {
	values := [2]int{}
	for i, key := range []string{"page", "limit"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			_ = c.Error(apperrors.Validation("invalid %s %q", key, raw))
			return 0, 0, false
		}
		values[i] = n
	}
	return values[0], values[1], true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		_ = c.Error(apperrors.Validation("invalid request body: %v", err))
		return false
	}
	return true
}
