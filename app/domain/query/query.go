package query

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	Limit  *int
	Offset *int
	Order  string
}

func GetPaginationFromQuery(reqCtx *gin.Context) (*Pagination, error) {
	limitStr := reqCtx.DefaultQuery("limit", "50")
	offsetStr := reqCtx.DefaultQuery("offset", "0")
	order := reqCtx.DefaultQuery("order", "desc")

	limitInt, err := strconv.Atoi(limitStr)
	if err != nil || limitInt < 1 || limitInt > 200 {
		return nil, fmt.Errorf("invalid limit number")
	}
	offsetInt, err := strconv.Atoi(offsetStr)
	if err != nil || offsetInt < 0 {
		return nil, fmt.Errorf("invalid offset number")
	}

	if order != "asc" && order != "desc" {
		return nil, fmt.Errorf("invalid order")
	}

	return &Pagination{
		Limit:  &limitInt,
		Offset: &offsetInt,
		Order:  order,
	}, nil
}
