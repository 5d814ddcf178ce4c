package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mnakayama/task-manager-api/internal/constants"
)

// PaginationParams holds skip/limit pagination parameters
type PaginationParams struct {
	Skip  int
	Limit int
}

// GetPaginationParams extracts and clamps skip/limit from the query string.
// Limit is bounded to [1, MaxPageSize].
func GetPaginationParams(c *gin.Context) PaginationParams {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Skip:  skip,
		Limit: limit,
	}
}
