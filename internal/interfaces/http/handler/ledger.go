package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/stockledger/backend/internal/application/ledger"
	"github.com/stockledger/backend/internal/domain/ledger"
	"github.com/stockledger/backend/internal/interfaces/http/middleware"
)

// LedgerHandler handles movement ledger and balance API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// Record godoc
// @ID           recordMovement
// @Summary      Record a stock movement
// @Description  Append a receipt, issue or correction to the ledger and project the balance
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.RecordMovementRequest true "Movement to record"
// @Success      201 {object} APIResponse[ledgerapp.RecordMovementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /ledger/movements [post]
func (h *LedgerHandler) Record(c *gin.Context) {
	var req ledgerapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.ledgerService.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetBalance godoc
// @ID           getBalance
// @Summary      Get the balance for an item at a location
// @Description  Returns a zero balance when no movement has touched the pair yet
// @Tags         ledger
// @Produce      json
// @Param        item_id query string true "Item ID" format(uuid)
// @Param        location_id query string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.BalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /ledger/balances/lookup [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	balance, err := h.ledgerService.BalanceOf(c.Request.Context(), itemID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// ListItemBalances godoc
// @ID           listItemBalances
// @Summary      List an item's balances across locations
// @Tags         ledger
// @Produce      json
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[[]ledgerapp.BalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /ledger/items/{item_id}/balances [get]
func (h *LedgerHandler) ListItemBalances(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	balances, err := h.ledgerService.BalancesOfItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balances)
}

// History godoc
// @ID           getMovementHistory
// @Summary      Get movement history for an item at a location
// @Description  Movements ordered by sequence, optionally bounded by from/to sequence numbers
// @Tags         ledger
// @Produce      json
// @Param        item_id query string true "Item ID" format(uuid)
// @Param        location_id query string true "Location ID" format(uuid)
// @Param        from query int false "Lowest sequence to include"
// @Param        to query int false "Highest sequence to include"
// @Success      200 {object} APIResponse[[]ledgerapp.MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /ledger/movements/history [get]
func (h *LedgerHandler) History(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var rng ledger.SequenceRange
	if from := c.Query("from"); from != "" {
		rng.From, err = strconv.ParseInt(from, 10, 64)
		if err != nil {
			h.BadRequest(c, "Invalid from sequence")
			return
		}
	}
	if to := c.Query("to"); to != "" {
		rng.To, err = strconv.ParseInt(to, 10, 64)
		if err != nil {
			h.BadRequest(c, "Invalid to sequence")
			return
		}
	}

	movements, err := h.ledgerService.History(c.Request.Context(), itemID, locationID, rng)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// Recent godoc
// @ID           listRecentMovements
// @Summary      List the most recent movements across all items
// @Tags         ledger
// @Produce      json
// @Param        limit query int false "Maximum number of movements" default(50)
// @Success      200 {object} APIResponse[[]ledgerapp.MovementResponse]
// @Router       /ledger/movements/recent [get]
func (h *LedgerHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	movements, err := h.ledgerService.RecentMovements(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// Alerts godoc
// @ID           listReorderAlerts
// @Summary      List active reorder alerts
// @Description  Items whose total projected stock is below their reorder level
// @Tags         ledger
// @Produce      json
// @Success      200 {object} APIResponse[[]ledgerapp.ReorderAlertResponse]
// @Router       /ledger/alerts [get]
func (h *LedgerHandler) Alerts(c *gin.Context) {
	alerts, err := h.ledgerService.ActiveAlerts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// Overview godoc
// @ID           getStockOverview
// @Summary      Get the stock overview
// @Description  Per-item totals with the per-location breakdown
// @Tags         ledger
// @Produce      json
// @Success      200 {object} APIResponse[[]ledgerapp.StockOverviewRow]
// @Router       /ledger/overview [get]
func (h *LedgerHandler) Overview(c *gin.Context) {
	rows, err := h.ledgerService.Overview(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}
