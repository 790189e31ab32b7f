package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
	// MaxPage keeps the offset within int32 at the largest limit
	MaxPage = math.MaxInt32 / MaxLimit
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts page/limit from the query string and clamps them
func Parse(c *gin.Context) Params {
	return New(c.Query("page"), c.Query("limit"))
}

// New clamps raw page/limit strings. Garbage falls back to defaults.
func New(rawPage, rawLimit string) Params {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
