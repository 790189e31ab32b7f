package handler

import (
	"net/http"
	"strconv"

	"setoran/internal/apperror"
	"setoran/internal/service"
	"setoran/pkg/response"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler serves the WIB daily and monthly ledger reports
type StatisticsHandler struct {
	ledgerService service.LedgerService
}

func NewStatisticsHandler(ledgerService service.LedgerService) *StatisticsHandler {
	return &StatisticsHandler{ledgerService: ledgerService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/ledger/reports")
	{
		reports.GET("/daily", h.GetDailyReport)
		reports.GET("/monthly", h.GetMonthlyReport)
	}
}

// GetDailyReport godoc
// @Summary      Daily ledger summary
// @Description  Income and expense totals for one WIB (UTC+7) calendar day, defaulting to today
// @Tags         reports
// @Produce      json
// @Param        date  query     string  false  "Day as YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=model.DailySummary}
// @Failure      400   {object}  response.Response
// @Router       /ledger/reports/daily [get]
func (h *StatisticsHandler) GetDailyReport(c *gin.Context) {
	result, err := h.ledgerService.DailySummary(c.Request.Context(), c.Query("date"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// GetMonthlyReport godoc
// @Summary      Monthly ledger summary
// @Description  Totals and active days for one WIB calendar month, defaulting to the current month
// @Tags         reports
// @Produce      json
// @Param        year   query     int  false  "Year"
// @Param        month  query     int  false  "Month 1-12"
// @Success      200    {object}  response.Response{data=model.MonthlySummary}
// @Failure      400    {object}  response.Response
// @Router       /ledger/reports/monthly [get]
func (h *StatisticsHandler) GetMonthlyReport(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.ledgerService.MonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// yearMonth reads optional year and month query params, which come as a pair
func yearMonth(c *gin.Context) (int, int, error) {
	year, err := optionalInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := optionalInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	if (year == 0) != (month == 0) {
		return 0, 0, apperror.BadRequest("year and month must be given together")
	}
	return year, month, nil
}

func optionalInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.BadRequest("%s must be a number", key)
	}
	return n, nil
}
