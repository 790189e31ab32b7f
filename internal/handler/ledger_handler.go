package handler

import (
	"net/http"

	"setoran/internal/service"
	"setoran/pkg/pagination"
	"setoran/pkg/response"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	ledger := router.Group("/ledger")
	{
		ledger.GET("/balance", h.GetBalance)
		ledger.GET("/entries", h.ListEntries)
		ledger.GET("/entries/monthly", h.ListMonthlyEntries)
		ledger.GET("/entries/:id", h.GetEntry)
	}
}

// GetBalance godoc
// @Summary      Current ledger balance
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  response.Response{data=service.BalanceResponse}
// @Router       /ledger/balance [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	result, err := h.ledgerService.GetBalance(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// ListEntries godoc
// @Summary      Ledger history
// @Description  Entries newest first
// @Tags         ledger
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20, max 100)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /ledger/entries [get]
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	p := pagination.Parse(c)

	entries, total, err := h.ledgerService.ListEntries(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(response.NewPage(entries, p.Page, p.Limit, total)))
}

// ListMonthlyEntries godoc
// @Summary      Ledger entries of one month
// @Description  Entries of one WIB calendar month newest first, with depositor and good; defaults to the current month
// @Tags         ledger
// @Produce      json
// @Param        year   query     int  false  "Year"
// @Param        month  query     int  false  "Month 1-12"
// @Success      200    {object}  response.Response{data=[]service.LedgerEntryDetailResponse}
// @Failure      400    {object}  response.Response
// @Router       /ledger/entries/monthly [get]
func (h *LedgerHandler) ListMonthlyEntries(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.ledgerService.ListEntriesByMonth(c.Request.Context(), year, month)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// GetEntry godoc
// @Summary      Ledger entry detail
// @Tags         ledger
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=service.LedgerEntryDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /ledger/entries/{id} [get]
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.ledgerService.GetEntry(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}
