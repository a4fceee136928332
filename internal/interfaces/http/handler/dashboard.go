package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	ledgerapp "github.com/stockledger/backend/internal/application/ledger"
	purchasingapp "github.com/stockledger/backend/internal/application/purchasing"
)

// DashboardHandler composes the dashboard metrics endpoint
type DashboardHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
	orderService  *purchasingapp.PurchaseOrderService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(ledgerService *ledgerapp.LedgerService, orderService *purchasingapp.PurchaseOrderService) *DashboardHandler {
	return &DashboardHandler{
		ledgerService: ledgerService,
		orderService:  orderService,
	}
}

// DashboardMetricsResponse represents the dashboard metrics
type DashboardMetricsResponse struct {
	ItemCount      int64           `json:"item_count"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	LowStockCount  int64           `json:"low_stock_count"`
	OpenOrderCount int64           `json:"open_order_count"`
}

// Metrics godoc
// @ID           getDashboardMetrics
// @Summary      Get dashboard metrics
// @Description  Item count, total projected stock, low stock alerts and open purchase orders
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[DashboardMetricsResponse]
// @Router       /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	summary, err := h.ledgerService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	openOrders, err := h.orderService.CountOpen(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DashboardMetricsResponse{
		ItemCount:      summary.ItemCount,
		TotalQuantity:  summary.TotalQuantity,
		LowStockCount:  summary.LowStockCount,
		OpenOrderCount: openOrders,
	})
}
