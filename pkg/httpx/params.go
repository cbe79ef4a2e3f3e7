package httpx

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrBadPage — limit/offset не целые или отрицательные.
var ErrBadPage = errors.New("invalid pagination")

// Page — окно выборки списка.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage — limit/offset из query.
// Отсутствующий или нулевой limit → defaultLimit; больше maxLimit → maxLimit.
func ParsePage(c *gin.Context, defaultLimit, maxLimit int) (Page, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return Page{}, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return Page{}, err
	}

	if limit == 0 {
		limit = defaultLimit
	}
	return Page{Limit: min(max(limit, 1), maxLimit), Offset: offset}, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadPage, key, raw)
	}
	return v, nil
}
