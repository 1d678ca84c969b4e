package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	defaultSkip  = 0
)

// parsePagination reads the limit/skip query parameters, applying the
// defaults when absent.
func parsePagination(c *gin.Context) (limit, skip int, err error) {
	limit, skip = defaultLimit, defaultSkip

	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid limit: %q", raw)
		}
	}
	if raw := c.Query("skip"); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, fmt.Errorf("invalid skip: %q", raw)
		}
	}
	return limit, skip, nil
}

func parseID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	return id, nil
}
